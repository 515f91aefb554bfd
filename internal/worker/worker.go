package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orkestra-io/orkestra/internal/decorator"
	"github.com/orkestra-io/orkestra/internal/domain"
	"github.com/orkestra-io/orkestra/internal/task"
	"github.com/orkestra-io/orkestra/internal/telemetry"
)

// Worker выполняет команды задач.
//
// Stateless: всё состояние запуска живёт в движке, Worker держит лишь
// реестр типов, конфигурацию декораторов и логгер.
type Worker struct {
	registry   *task.Registry
	decorators decorator.Config
	logger     *slog.Logger
}

// Config — конфигурация Worker.
type Config struct {
	// Registry — реестр типов задач. Обязателен.
	Registry *task.Registry

	// Decorators — конфигурация цепочек декораторов по типу задачи.
	// nil означает "без декорирования".
	Decorators decorator.Config

	// Logger — логгер. nil → slog.Default().
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		registry:   cfg.Registry,
		decorators: cfg.Decorators,
		logger:     logger,
	}
}

// Execute выполняет команду и нормализует итог.
//
// Единственная точка классификации: ошибка (или panic) из любого места
// цепочки — валидация, логика стратегии, сбойный декоратор — даёт
// FAILED, чистый возврат — SUCCESS.
func (w *Worker) Execute(ctx context.Context, cmd domain.TaskCommand, view task.ContextView) domain.StepOutcome {
	logger := telemetry.WithNodeID(telemetry.WithRunID(w.logger, cmd.RunID.String()), cmd.NodeKey)

	startedAt := time.Now()

	result, err := w.runChain(ctx, cmd, view, logger)
	finishedAt := time.Now()

	if err != nil {
		logger.Warn("command failed",
			"type", cmd.Type,
			"error", err,
		)
		telemetry.ObserveStep(cmd.Type, string(domain.NodeStatusFailed))

		return domain.StepOutcome{
			Status:     domain.NodeStatusFailed,
			Error:      err.Error(),
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
		}
	}

	logger.Info("command succeeded", "type", cmd.Type)
	telemetry.ObserveStep(cmd.Type, string(domain.NodeStatusSuccess))

	return domain.StepOutcome{
		Status:     domain.NodeStatusSuccess,
		Result:     result,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}

// runChain создаёт стратегию, строит цепочку декораторов и вызывает её.
// Panic из стратегии или декоратора превращается в ошибку здесь же,
// чтобы граница классификации оставалась единственной.
func (w *Worker) runChain(ctx context.Context, cmd domain.TaskCommand, view task.ContextView, logger *slog.Logger) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()

	strategy, err := w.registry.Create(cmd.Type)
	if err != nil {
		return nil, err
	}

	base := decorator.RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
		return task.Run(ctx, strategy, view, params)
	})

	chain := w.decorators.Wrap(base, cmd.Type, logger)

	return chain.Run(ctx, view, cmd.Params)
}
