// Package scheduler — периодические запуски workflow по cron-расписанию.
//
// Scheduler держит набор записей "cron-выражение → определение workflow"
// и запускает движок на каждый срабатывающий тик. Тик пропускается,
// если предыдущий запуск той же записи ещё выполняется.
package scheduler
