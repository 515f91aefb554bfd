// Package mq — интеграция с RabbitMQ.
//
// Включает:
//   - connection.go — соединение с автоматическим reconnect
//   - topology.go   — exchange и очереди событий
//   - publisher.go  — публикация событий запусков и уведомлений
//
// Брокер — опциональный коллаборатор: движок и задача notify работают
// и без него (события просто не публикуются).
package mq
