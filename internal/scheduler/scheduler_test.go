package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/orkestra-io/orkestra/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubRunner считает запуски.
type stubRunner struct {
	runs int
}

func (r *stubRunner) Run(ctx context.Context, wf *domain.WorkflowDefinition) (*domain.WorkflowResult, error) {
	r.runs++
	return &domain.WorkflowResult{
		WorkflowName: wf.Name,
		Status:       domain.WorkflowStatusSuccess,
	}, nil
}

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		expr   string
		wantOK bool
	}{
		{"* * * * *", true},
		{"0 3 * * 1", true},
		{"*/5 * * * *", true},
		{"", false},
		{"not a cron", false},
		{"61 * * * *", false},
	}

	for _, tt := range tests {
		err := ValidateCronExpr(tt.expr)
		if tt.wantOK && err != nil {
			t.Errorf("ValidateCronExpr(%q) = %v, want nil", tt.expr, err)
		}
		if !tt.wantOK && err == nil {
			t.Errorf("ValidateCronExpr(%q) = nil, want error", tt.expr)
		}
	}
}

func TestScheduler_Add_InvalidExpr(t *testing.T) {
	s := New(Config{Runner: &stubRunner{}, Logger: discardLogger()})

	wf := &domain.WorkflowDefinition{Name: "nightly"}
	if err := s.Add("bad expr", wf); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}

func TestScheduler_Add_Valid(t *testing.T) {
	s := New(Config{Runner: &stubRunner{}, Logger: discardLogger()})

	wf := &domain.WorkflowDefinition{Name: "nightly"}
	if err := s.Add("0 3 * * *", wf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(s.cron.Entries()))
	}
}

func TestScheduler_RunWorkflow(t *testing.T) {
	runner := &stubRunner{}
	s := New(Config{Runner: runner, Logger: discardLogger()})

	// Прямой вызов тика, без ожидания cron
	s.runWorkflow(&domain.WorkflowDefinition{Name: "manual"})

	if runner.runs != 1 {
		t.Errorf("runs = %d, want 1", runner.runs)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(Config{Runner: &stubRunner{}, Logger: discardLogger()})

	s.Start()
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
