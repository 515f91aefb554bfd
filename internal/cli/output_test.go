package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/orkestra-io/orkestra/internal/domain"
)

func captureOutput(jsonMode bool) (*Output, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &Output{jsonMode: jsonMode, w: buf, errW: &bytes.Buffer{}}, buf
}

func TestOutput_Table(t *testing.T) {
	out, buf := captureOutput(false)

	out.Print(
		[]string{"ID", "STATUS"},
		[][]string{{"a", "SUCCESS"}, {"b", "FAILED"}},
		nil,
	)

	text := buf.String()
	for _, want := range []string{"ID", "STATUS", "a", "SUCCESS", "b", "FAILED"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestOutput_JSONMode(t *testing.T) {
	out, buf := captureOutput(true)

	out.Print(nil, nil, map[string]string{"key": "value"})

	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("JSON output = %q", buf.String())
	}
}

func TestOutput_PrintWorkflowResult(t *testing.T) {
	out, buf := captureOutput(false)

	now := time.Now()
	result := &domain.WorkflowResult{
		WorkflowName: "demo",
		Status:       domain.WorkflowStatusPartialSuccess,
		Results: map[string]domain.StepOutcome{
			"fetch": {Status: domain.NodeStatusSuccess, StartedAt: now, FinishedAt: now},
			"store": {Status: domain.NodeStatusFailed, Error: "connection refused", StartedAt: now, FinishedAt: now},
			"note":  {Status: domain.NodeStatusSkipped, Reason: "dependency failed: store", StartedAt: now, FinishedAt: now},
		},
	}

	out.PrintWorkflowResult(result)

	text := buf.String()
	for _, want := range []string{"fetch", "SUCCESS", "connection refused", "dependency failed: store", "PARTIAL_SUCCESS"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}
