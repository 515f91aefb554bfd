// Package task определяет контракт стратегии шага и реестр типов задач.
//
// Включает:
//   - task.go     — интерфейс Task, базовые no-op хуки, ContextView
//   - run.go      — фиксированный шаблон выполнения Run
//   - registry.go — реестр типов задач (дискриминатор → конструктор)
//
// Пакет не содержит ни одной конкретной задачи: реализации живут
// в пакете tasks и регистрируются внешним bootstrap-кодом до запуска.
package task
