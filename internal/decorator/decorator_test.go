package decorator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/orkestra-io/orkestra/internal/task"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// labeling возвращает конструктор декоратора, дописывающего метку
// к результату. По меткам видно порядок применения обёрток.
func labeling(label string, trace *[]string) Constructor {
	return func(inner Runner, taskType string, logger *slog.Logger) Runner {
		return RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
			*trace = append(*trace, label)
			return inner.Run(ctx, view, params)
		})
	}
}

func TestConfig_Wrap_LastEntryIsOutermost(t *testing.T) {
	var trace []string

	base := RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
		trace = append(trace, "base")
		return "ok", nil
	})

	cfg := Config{
		"demo": {labeling("inner", &trace), labeling("outer", &trace)},
	}

	chain := cfg.Wrap(base, "demo", discardLogger())
	result, err := chain.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}

	// Последний элемент списка — внешняя обёртка, входит первой
	want := []string{"outer", "inner", "base"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i, label := range want {
		if trace[i] != label {
			t.Errorf("trace[%d] = %s, want %s", i, trace[i], label)
		}
	}
}

func TestConfig_Wrap_UnknownTypeReturnsBase(t *testing.T) {
	base := RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
		return 42, nil
	})

	chain := Config{}.Wrap(base, "unknown", discardLogger())

	result, err := chain.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestTiming_PassesResultThrough(t *testing.T) {
	base := RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
		return map[string]any{"rows": 10}, nil
	})

	chain := NewTiming(base, "demo", discardLogger())

	result, err := chain.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Результат не обогащается и не подменяется
	m, ok := result.(map[string]any)
	if !ok || m["rows"] != 10 {
		t.Errorf("result = %v, want original payload", result)
	}
}

func TestTiming_ReRaisesError(t *testing.T) {
	baseErr := errors.New("strategy failed")
	base := RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
		return nil, baseErr
	})

	chain := NewTiming(base, "demo", discardLogger())

	_, err := chain.Run(context.Background(), nil, nil)
	if !errors.Is(err, baseErr) {
		t.Errorf("err = %v, want %v", err, baseErr)
	}
}

func TestLogging_ReRaisesError(t *testing.T) {
	baseErr := errors.New("strategy failed")
	base := RunnerFunc(func(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
		return nil, baseErr
	})

	chain := NewLogging(base, "demo", discardLogger())

	_, err := chain.Run(context.Background(), nil, map[string]any{"password": "secret"})
	if !errors.Is(err, baseErr) {
		t.Errorf("err = %v, want %v", err, baseErr)
	}
}

func TestSanitizeParams_MasksSecrets(t *testing.T) {
	params := map[string]any{
		"url":        "https://example.com",
		"password":   "hunter2",
		"api_key":    "abc",
		"AUTH_TOKEN": "xyz",
	}

	sanitized := sanitizeParams(params)

	if sanitized["url"] != "https://example.com" {
		t.Error("non-secret params should pass through")
	}
	for _, key := range []string{"password", "api_key", "AUTH_TOKEN"} {
		if sanitized[key] != maskedValue {
			t.Errorf("param %s should be masked, got %v", key, sanitized[key])
		}
	}

	// Исходная map не изменяется
	if params["password"] != "hunter2" {
		t.Error("sanitize must not mutate the original params")
	}
}

func TestDefaultConfig_CoversBuiltinTypes(t *testing.T) {
	cfg := DefaultConfig()

	for _, taskType := range []string{"http_get", "validate_csv", "transform_sql", "save_db", "notify"} {
		if len(cfg[taskType]) == 0 {
			t.Errorf("default config should cover %s", taskType)
		}
	}
}
