package decorator

import (
	"context"
	"log/slog"
	"time"

	"github.com/orkestra-io/orkestra/internal/task"
	"github.com/orkestra-io/orkestra/internal/telemetry"
)

// Timing — декоратор времени выполнения.
//
// Измеряет wall-clock продолжительность внутреннего вызова, пишет
// событие в лог и гистограмму Prometheus. Результат и ошибка проходят
// насквозь без изменений.
type Timing struct {
	inner    Runner
	taskType string
	logger   *slog.Logger
}

// NewTiming создаёт декоратор времени. Сигнатура соответствует Constructor.
func NewTiming(inner Runner, taskType string, logger *slog.Logger) Runner {
	return &Timing{inner: inner, taskType: taskType, logger: logger}
}

// Run выполняет внутренний вызов, измеряя продолжительность.
func (d *Timing) Run(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	start := time.Now()

	result, err := d.inner.Run(ctx, view, params)
	duration := time.Since(start)

	telemetry.ObserveStepDuration(d.taskType, duration)

	if err != nil {
		d.logger.Warn("task failed",
			"type", d.taskType,
			"duration", duration,
			"error", err,
		)
		return nil, err
	}

	d.logger.Info("task completed",
		"type", d.taskType,
		"duration", duration,
	)

	return result, nil
}
