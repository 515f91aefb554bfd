package task

import "context"

// Run — фиксированный шаблон выполнения задачи.
//
// Последовательность неизменна и реализована ровно один раз:
//
//	Before(params) → ValidateParams(params) → Execute(ctx, view, params) → After(result)
//
// Ошибка на любой стадии прерывает последовательность: вызывается
// OnError (только наблюдение) и та же ошибка возвращается вызывающему
// без изменений. Реализации Task не могут переопределить этот порядок.
func Run(ctx context.Context, t Task, view ContextView, params map[string]any) (any, error) {
	if err := t.Before(ctx, params); err != nil {
		t.OnError(err)
		return nil, err
	}

	if err := t.ValidateParams(params); err != nil {
		t.OnError(err)
		return nil, err
	}

	result, err := t.Execute(ctx, view, params)
	if err != nil {
		t.OnError(err)
		return nil, err
	}

	if err := t.After(result); err != nil {
		t.OnError(err)
		return nil, err
	}

	return result, nil
}
