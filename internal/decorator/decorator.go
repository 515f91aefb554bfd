package decorator

import (
	"context"
	"log/slog"

	"github.com/orkestra-io/orkestra/internal/task"
)

// Runner — единый контракт запуска для стратегий и декораторов.
//
// Повторяет сигнатуру task.Run, что позволяет единообразно
// компоновать базовую стратегию и произвольное число обёрток.
type Runner interface {
	Run(ctx context.Context, view task.ContextView, params map[string]any) (any, error)
}

// RunnerFunc — адаптер функции к интерфейсу Runner.
type RunnerFunc func(ctx context.Context, view task.ContextView, params map[string]any) (any, error)

// Run вызывает функцию.
func (f RunnerFunc) Run(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	return f(ctx, view, params)
}

// Constructor строит один декоратор вокруг inner для задач типа taskType.
type Constructor func(inner Runner, taskType string, logger *slog.Logger) Runner

// Config — конфигурация декораторов: тип задачи → упорядоченный список
// конструкторов. Отсутствие записи означает "без декорирования".
//
// Порядок применения: список складывается слева направо, поэтому
// последний элемент списка становится внешней обёрткой — границей,
// которую Worker вызывает напрямую.
type Config map[string][]Constructor

// Wrap оборачивает base декораторами, настроенными для taskType.
func (c Config) Wrap(base Runner, taskType string, logger *slog.Logger) Runner {
	wrapped := base
	for _, build := range c[taskType] {
		wrapped = build(wrapped, taskType, logger)
	}
	return wrapped
}

// DefaultConfig возвращает конфигурацию по умолчанию для встроенных
// типов задач: каждый тип получает Timing и Logging (Logging — внешний).
func DefaultConfig() Config {
	standard := []Constructor{NewTiming, NewLogging}

	return Config{
		"http_get":      standard,
		"validate_csv":  standard,
		"transform_sql": standard,
		"save_db":       standard,
		"notify":        {NewTiming},
	}
}
