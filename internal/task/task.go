package task

import "context"

// ContextView — доступ на чтение к общему контексту запуска.
//
// Контекстом владеет движок: он дописывает результат каждого
// завершившегося узла под его ID. Задачи видят результаты своих
// предшественников, но не могут изменять контекст.
type ContextView interface {
	// Result возвращает результат узла по ID и признак его наличия.
	Result(nodeID string) (any, bool)

	// NodeIDs возвращает ID всех узлов, чьи результаты уже в контексте.
	NodeIDs() []string
}

// Task — стратегия выполнения одного типа шага.
//
// Обязательные методы: ValidateParams и Execute. Хуки Before, After и
// OnError опциональны — встраивание Base даёт no-op реализации.
//
// Задачи выполняются только через шаблон Run, который фиксирует
// последовательность Before → ValidateParams → Execute → After.
// Реализации должны быть stateless: реестр создаёт свежий экземпляр
// на каждое выполнение.
type Task interface {
	// ValidateParams проверяет параметры до выполнения.
	// Возвращает *ValidationError с указанием проблемного поля.
	ValidateParams(params map[string]any) error

	// Execute выполняет задачу и возвращает результат.
	// Ошибки не перехватываются внутри — они уходят вызывающему.
	Execute(ctx context.Context, view ContextView, params map[string]any) (any, error)

	// Before вызывается до валидации параметров.
	Before(ctx context.Context, params map[string]any) error

	// After вызывается после успешного Execute с его результатом.
	After(result any) error

	// OnError вызывается при ошибке на любой стадии — только для
	// наблюдения (логирование, диагностика). Возвращаемого значения
	// нет: хук не влияет на поток управления, ошибка уходит
	// вызывающему без изменений.
	OnError(err error)
}

// Base — встраиваемая заготовка с no-op хуками.
//
//	type HTTPGetTask struct {
//	    task.Base
//	}
type Base struct{}

// Before — no-op.
func (Base) Before(ctx context.Context, params map[string]any) error { return nil }

// After — no-op.
func (Base) After(result any) error { return nil }

// OnError — no-op.
func (Base) OnError(err error) {}

// Descriptor — метаданные типа задачи для регистрации и интроспекции.
type Descriptor struct {
	// Type — уникальный дискриминатор типа ("http_get", "validate_csv").
	Type string `json:"type"`

	// DisplayName — человекочитаемое имя.
	DisplayName string `json:"display_name,omitempty"`

	// Description — описание назначения задачи.
	Description string `json:"description,omitempty"`

	// Category — категория для группировки ("Входные", "Валидация").
	Category string `json:"category,omitempty"`

	// Icon — имя иконки для UI.
	Icon string `json:"icon,omitempty"`

	// ParamsSchema — JSON-schema параметров задачи.
	ParamsSchema map[string]any `json:"params_schema,omitempty"`
}
