package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orkestra-io/orkestra/internal/decorator"
	"github.com/orkestra-io/orkestra/internal/engine"
	"github.com/orkestra-io/orkestra/internal/mq"
	"github.com/orkestra-io/orkestra/internal/repo"
	"github.com/orkestra-io/orkestra/internal/task"
	"github.com/orkestra-io/orkestra/internal/tasks"
	"github.com/orkestra-io/orkestra/internal/worker"
)

// RuntimeOptions — какие внешние системы подключать.
type RuntimeOptions struct {
	// UseDB — подключить PostgreSQL (DSN из переменной DB_URL).
	// Включает персистентность запусков и задачу save_db.
	UseDB bool

	// UseAMQP — подключить RabbitMQ (URL из переменной AMQP_URL).
	// Включает события о завершении запусков и доставку notify.
	UseAMQP bool

	Logger *slog.Logger
}

// Runtime — собранный стек движка для одного вызова CLI.
type Runtime struct {
	Registry *task.Registry
	Engine   *engine.Engine
	Repo     *repo.WorkflowRepo
	Logger   *slog.Logger

	pool *pgxpool.Pool
	conn *mq.Connection
}

// NewRuntime собирает движок со всеми коллабораторами.
func NewRuntime(ctx context.Context, opts RuntimeOptions) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rt := &Runtime{Logger: logger}

	if opts.UseDB {
		pool, err := repo.NewPool(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.pool = pool

		rt.Repo = repo.NewWorkflowRepo(pool)
		if err := rt.Repo.Migrate(ctx); err != nil {
			rt.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	var publisher *mq.Publisher
	if opts.UseAMQP {
		url := os.Getenv("AMQP_URL")
		if url == "" {
			url = mq.DefaultURL()
		}

		conn, err := mq.NewConnection(url, logger)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect to broker: %w", err)
		}
		rt.conn = conn

		if err := mq.SetupTopology(conn); err != nil {
			rt.Close()
			return nil, fmt.Errorf("setup broker topology: %w", err)
		}
		publisher = mq.NewPublisher(conn, logger)
	}

	rt.Registry = task.NewRegistry()
	err := tasks.RegisterBuiltins(rt.Registry, tasks.Deps{
		Pool:      rt.pool,
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("register builtin tasks: %w", err)
	}

	w := worker.New(worker.Config{
		Registry:   rt.Registry,
		Decorators: decorator.DefaultConfig(),
		Logger:     logger,
	})

	engineCfg := engine.Config{
		Worker:    w,
		Publisher: publisher,
		Logger:    logger,
	}
	if rt.Repo != nil {
		engineCfg.Repo = rt.Repo
	}
	rt.Engine = engine.New(engineCfg)

	return rt, nil
}

// Close освобождает соединения с внешними системами.
func (rt *Runtime) Close() {
	if rt.conn != nil {
		rt.conn.Close()
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
}
