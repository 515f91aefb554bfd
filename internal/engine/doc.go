// Package engine содержит оркестратор workflow.
//
// Включает:
//   - parser.go  — разбор и валидация определения workflow из JSON
//   - context.go — общий контекст запуска (результаты узлов)
//   - engine.go  — выполнение: fixed-point обход зависимостей,
//     каскад пропусков при падении, агрегирование статуса
//
// Выполнение строго последовательное: узлы выполняются по одному
// в порядке определения среди одновременно готовых. Это осознанное
// упрощение v1, а не случайное ограничение; параллельная версия
// обязана сохранить порядок персистентных таймстампов и семантику
// каскада SKIPPED.
package engine
