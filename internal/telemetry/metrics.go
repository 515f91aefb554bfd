package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики запусков workflow.
var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orkestra",
		Name:      "runs_total",
		Help:      "Количество запусков workflow по итоговому статусу.",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "orkestra",
		Name:      "run_duration_seconds",
		Help:      "Продолжительность запуска workflow.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	})
)

// Метрики выполнения узлов.
var (
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orkestra",
		Name:      "steps_total",
		Help:      "Количество выполненных узлов по типу и статусу.",
	}, []string{"type", "status"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orkestra",
		Name:      "step_duration_seconds",
		Help:      "Продолжительность выполнения узла по типу задачи.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"type"})
)

// ObserveRun фиксирует завершение запуска workflow.
func ObserveRun(status string, d time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runDuration.Observe(d.Seconds())
}

// ObserveStep фиксирует итог выполнения узла.
func ObserveStep(taskType, status string) {
	stepsTotal.WithLabelValues(taskType, status).Inc()
}

// ObserveStepDuration фиксирует продолжительность выполнения узла.
// Вызывается декоратором времени вокруг внутреннего вызова.
func ObserveStepDuration(taskType string, d time.Duration) {
	stepDuration.WithLabelValues(taskType).Observe(d.Seconds())
}
