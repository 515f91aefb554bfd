package tasks

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orkestra-io/orkestra/internal/mq"
	"github.com/orkestra-io/orkestra/internal/task"
)

// Deps — внешние зависимости встроенных задач.
//
// Pool и Publisher опциональны: без них save_db вернёт ошибку при
// выполнении, а notify ограничится логом.
type Deps struct {
	Pool      *pgxpool.Pool
	Publisher *mq.Publisher
	Logger    *slog.Logger
}

// RegisterBuiltins регистрирует все встроенные типы задач в реестре.
func RegisterBuiltins(registry *task.Registry, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registrations := []task.Registration{
		{
			Descriptor: HTTPGetDescriptor(),
			New:        func() task.Task { return NewHTTPGetTask(logger) },
		},
		{
			Descriptor: ValidateCSVDescriptor(),
			New:        func() task.Task { return NewValidateCSVTask(logger) },
		},
		{
			Descriptor: TransformSQLDescriptor(),
			New:        func() task.Task { return NewTransformSQLTask(logger) },
		},
		{
			Descriptor: SaveDBDescriptor(),
			New:        func() task.Task { return NewSaveDBTask(deps.Pool, logger) },
		},
		{
			Descriptor: NotifyDescriptor(),
			New:        func() task.Task { return NewNotifyTask(deps.Publisher, logger) },
		},
	}

	for _, reg := range registrations {
		if err := registry.Register(reg); err != nil {
			return err
		}
	}
	return nil
}
