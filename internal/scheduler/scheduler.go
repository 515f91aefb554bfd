package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/orkestra-io/orkestra/internal/domain"
)

// cronParser — парсер стандартных пятипольных cron-выражений.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// WorkflowRunner запускает workflow. Реализуется engine.Engine.
type WorkflowRunner interface {
	Run(ctx context.Context, wf *domain.WorkflowDefinition) (*domain.WorkflowResult, error)
}

// Scheduler — планировщик периодических запусков workflow.
type Scheduler struct {
	runner WorkflowRunner
	logger *slog.Logger
	cron   *cron.Cron
}

// Config — конфигурация Scheduler.
type Config struct {
	Runner WorkflowRunner
	Logger *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		runner: cfg.Runner,
		logger: cfg.Logger,
		cron: cron.New(
			cron.WithParser(cronParser),
			// тик пропускается, если предыдущий запуск ещё выполняется
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Add регистрирует периодический запуск workflow по cron-выражению.
func (s *Scheduler) Add(cronExpr string, wf *domain.WorkflowDefinition) error {
	if err := ValidateCronExpr(cronExpr); err != nil {
		return err
	}

	_, err := s.cron.AddFunc(cronExpr, func() {
		s.runWorkflow(wf)
	})
	if err != nil {
		return fmt.Errorf("add cron entry %q: %w", cronExpr, err)
	}

	s.logger.Info("scheduled workflow",
		"workflow", wf.Name,
		"cron", cronExpr,
	)
	return nil
}

// Start запускает планировщик в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "entries", len(s.cron.Entries()))
}

// Stop останавливает планировщик и ждёт завершения текущих запусков.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown: %w", ctx.Err())
	}
}

// runWorkflow выполняет один запуск по тику cron.
// Ошибка запуска логируется и не останавливает расписание.
func (s *Scheduler) runWorkflow(wf *domain.WorkflowDefinition) {
	s.logger.Info("scheduled run starting", "workflow", wf.Name)

	result, err := s.runner.Run(context.Background(), wf)
	if err != nil {
		s.logger.Error("scheduled run failed",
			"workflow", wf.Name,
			"error", err,
		)
		return
	}

	s.logger.Info("scheduled run finished",
		"workflow", wf.Name,
		"status", result.Status,
	)
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	if _, err := cronParser.Parse(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}
