package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/orkestra-io/orkestra/internal/decorator"
	"github.com/orkestra-io/orkestra/internal/domain"
	"github.com/orkestra-io/orkestra/internal/task"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTask — управляемая стратегия для тестов Worker.
type stubTask struct {
	task.Base

	validateErr error
	executeErr  error
	panicValue  any
	result      any
}

func (t *stubTask) ValidateParams(params map[string]any) error { return t.validateErr }

func (t *stubTask) Execute(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	if t.panicValue != nil {
		panic(t.panicValue)
	}
	if t.executeErr != nil {
		return nil, t.executeErr
	}
	return t.result, nil
}

func newWorker(t *testing.T, taskType string, factory func() task.Task, decorators decorator.Config) *Worker {
	t.Helper()

	registry := task.NewRegistry()
	err := registry.Register(task.Registration{
		Descriptor: task.Descriptor{Type: taskType},
		New:        factory,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	return New(Config{
		Registry:   registry,
		Decorators: decorators,
		Logger:     discardLogger(),
	})
}

func command(taskType string) domain.TaskCommand {
	return domain.TaskCommand{
		RunID:   uuid.New(),
		NodeKey: "node-1",
		Type:    taskType,
		Params:  map[string]any{},
	}
}

func TestWorker_Execute_Success(t *testing.T) {
	w := newWorker(t, "echo", func() task.Task {
		return &stubTask{result: map[string]any{"value": 7}}
	}, nil)

	outcome := w.Execute(context.Background(), command("echo"), nil)

	if outcome.Status != domain.NodeStatusSuccess {
		t.Fatalf("status = %s, want SUCCESS", outcome.Status)
	}
	m, ok := outcome.Result.(map[string]any)
	if !ok || m["value"] != 7 {
		t.Errorf("result = %v, want payload", outcome.Result)
	}
	if outcome.Error != "" {
		t.Errorf("error = %q, want empty", outcome.Error)
	}
	if outcome.FinishedAt.Before(outcome.StartedAt) {
		t.Error("finished_at should not precede started_at")
	}
}

func TestWorker_Execute_UnknownType(t *testing.T) {
	w := New(Config{Registry: task.NewRegistry(), Logger: discardLogger()})

	outcome := w.Execute(context.Background(), command("missing"), nil)

	if outcome.Status != domain.NodeStatusFailed {
		t.Fatalf("status = %s, want FAILED", outcome.Status)
	}
	if !strings.Contains(outcome.Error, "unknown task type") {
		t.Errorf("error = %q, want unknown task type", outcome.Error)
	}
}

func TestWorker_Execute_ValidationFailure(t *testing.T) {
	w := newWorker(t, "strict", func() task.Task {
		return &stubTask{validateErr: task.NewValidationError("url", "is required")}
	}, nil)

	outcome := w.Execute(context.Background(), command("strict"), nil)

	if outcome.Status != domain.NodeStatusFailed {
		t.Fatalf("status = %s, want FAILED", outcome.Status)
	}
	if !strings.Contains(outcome.Error, `param "url"`) {
		t.Errorf("error = %q, want validation message", outcome.Error)
	}
}

func TestWorker_Execute_ExecutionFailure(t *testing.T) {
	w := newWorker(t, "flaky", func() task.Task {
		return &stubTask{executeErr: errors.New("connection refused")}
	}, nil)

	outcome := w.Execute(context.Background(), command("flaky"), nil)

	if outcome.Status != domain.NodeStatusFailed {
		t.Fatalf("status = %s, want FAILED", outcome.Status)
	}
	if outcome.Error != "connection refused" {
		t.Errorf("error = %q, want connection refused", outcome.Error)
	}
	if outcome.Result != nil {
		t.Errorf("result = %v, want nil on failure", outcome.Result)
	}
}

func TestWorker_Execute_PanicRecovery(t *testing.T) {
	w := newWorker(t, "bomb", func() task.Task {
		return &stubTask{panicValue: "index out of range"}
	}, nil)

	outcome := w.Execute(context.Background(), command("bomb"), nil)

	if outcome.Status != domain.NodeStatusFailed {
		t.Fatalf("status = %s, want FAILED", outcome.Status)
	}
	if !strings.Contains(outcome.Error, "task panic") {
		t.Errorf("error = %q, want task panic", outcome.Error)
	}
}

func TestWorker_Execute_DecoratorChainApplied(t *testing.T) {
	var entered bool

	decorators := decorator.Config{
		"echo": {
			func(inner decorator.Runner, taskType string, logger *slog.Logger) decorator.Runner {
				return decorator.RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
					entered = true
					return inner.Run(ctx, view, params)
				})
			},
		},
	}

	w := newWorker(t, "echo", func() task.Task {
		return &stubTask{result: "ok"}
	}, decorators)

	outcome := w.Execute(context.Background(), command("echo"), nil)

	if !entered {
		t.Error("decorator chain should be invoked")
	}
	if outcome.Status != domain.NodeStatusSuccess {
		t.Errorf("status = %s, want SUCCESS", outcome.Status)
	}
}

// Контракт декораторов: обёртка, глотающая ошибку, ломает классификацию —
// Worker увидит чистый возврат и отчитается SUCCESS.
func TestWorker_Execute_SuppressingDecoratorBreaksClassification(t *testing.T) {
	decorators := decorator.Config{
		"flaky": {
			func(inner decorator.Runner, taskType string, logger *slog.Logger) decorator.Runner {
				return decorator.RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
					result, _ := inner.Run(ctx, view, params)
					return result, nil // нарушение контракта: ошибка проглочена
				})
			},
		},
	}

	w := newWorker(t, "flaky", func() task.Task {
		return &stubTask{executeErr: errors.New("boom")}
	}, decorators)

	outcome := w.Execute(context.Background(), command("flaky"), nil)

	if outcome.Status != domain.NodeStatusSuccess {
		t.Errorf("status = %s: a suppressing decorator makes the worker report SUCCESS", outcome.Status)
	}
}
