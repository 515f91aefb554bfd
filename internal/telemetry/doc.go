// Package telemetry обеспечивает наблюдаемость движка.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики запусков и узлов
//
// Все компоненты используют единый формат логирования; метрики
// экспортируются на /metrics endpoint в долгоживущих режимах.
package telemetry
