package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orkestra-io/orkestra/internal/task"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeView — контекст запуска для тестов задач.
type fakeView struct {
	results map[string]any
	order   []string
}

func newFakeView() *fakeView {
	return &fakeView{results: make(map[string]any)}
}

func (v *fakeView) add(nodeID string, result any) *fakeView {
	v.results[nodeID] = result
	v.order = append(v.order, nodeID)
	return v
}

func (v *fakeView) Result(nodeID string) (any, bool) {
	result, ok := v.results[nodeID]
	return result, ok
}

func (v *fakeView) NodeIDs() []string { return v.order }

// --- HTTPGetTask ---

func TestHTTPGetTask_ValidateParams(t *testing.T) {
	tk := NewHTTPGetTask(discardLogger())

	if err := tk.ValidateParams(map[string]any{}); !errors.Is(err, task.ErrInvalidParams) {
		t.Errorf("missing url: err = %v, want ErrInvalidParams", err)
	}
	if err := tk.ValidateParams(map[string]any{"url": "ftp://host"}); err == nil {
		t.Error("non-http scheme should be rejected")
	}
	if err := tk.ValidateParams(map[string]any{"url": "https://example.com"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHTTPGetTask_Execute_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Token") != "abc" {
			t.Error("custom header not forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": 1}, {"id": 2}]}`))
	}))
	defer server.Close()

	tk := NewHTTPGetTask(discardLogger())
	result, err := tk.Execute(context.Background(), nil, map[string]any{
		"url":     server.URL,
		"headers": map[string]any{"X-Token": "abc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["status_code"] != 200 {
		t.Errorf("status_code = %v, want 200", m["status_code"])
	}

	// Вложенное поле data выносится на верхний уровень
	data, ok := m["data"].([]any)
	if !ok || len(data) != 2 {
		t.Errorf("data = %v, want two rows", m["data"])
	}
}

func TestHTTPGetTask_Execute_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	tk := NewHTTPGetTask(discardLogger())
	result, err := tk.Execute(context.Background(), nil, map[string]any{"url": server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["body"] != "hello" {
		t.Errorf("body = %v, want hello", m["body"])
	}
}

func TestHTTPGetTask_Execute_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tk := NewHTTPGetTask(discardLogger())
	_, err := tk.Execute(context.Background(), nil, map[string]any{"url": server.URL})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("err = %v, want status 500 error", err)
	}
}

// --- ValidateCSVTask ---

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCSVTask_Execute_Valid(t *testing.T) {
	path := writeCSV(t, "id,name,amount\n1,alpha,10\n2,beta,20\n")

	tk := NewValidateCSVTask(discardLogger())
	result, err := tk.Execute(context.Background(), nil, map[string]any{
		"path":    path,
		"columns": []any{"id", "name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["valid"] != true {
		t.Error("valid should be true")
	}
	if m["rows"] != 2 {
		t.Errorf("rows = %v, want 2", m["rows"])
	}
	if m["has_extra_columns"] != true {
		t.Error("amount is an extra column")
	}
}

func TestValidateCSVTask_Execute_MissingColumns(t *testing.T) {
	path := writeCSV(t, "id,name\n1,alpha\n")

	tk := NewValidateCSVTask(discardLogger())
	_, err := tk.Execute(context.Background(), nil, map[string]any{
		"path":    path,
		"columns": []any{"id", "amount"},
	})
	if err == nil || !strings.Contains(err.Error(), "amount") {
		t.Errorf("err = %v, want missing column amount", err)
	}
}

func TestValidateCSVTask_Execute_ExtraColumnsForbidden(t *testing.T) {
	path := writeCSV(t, "id,name,extra\n1,alpha,x\n")

	tk := NewValidateCSVTask(discardLogger())
	_, err := tk.Execute(context.Background(), nil, map[string]any{
		"path":                path,
		"columns":             []any{"id", "name"},
		"allow_extra_columns": false,
	})
	if err == nil || !strings.Contains(err.Error(), "extra") {
		t.Errorf("err = %v, want unexpected columns error", err)
	}
}

func TestValidateCSVTask_Execute_EmptyFile(t *testing.T) {
	path := writeCSV(t, "id,name\n")

	tk := NewValidateCSVTask(discardLogger())
	_, err := tk.Execute(context.Background(), nil, map[string]any{
		"path":    path,
		"columns": []any{"id"},
	})
	if err == nil || !strings.Contains(err.Error(), "no data rows") {
		t.Errorf("err = %v, want no data rows error", err)
	}
}

func TestValidateCSVTask_Execute_FileNotFound(t *testing.T) {
	tk := NewValidateCSVTask(discardLogger())
	_, err := tk.Execute(context.Background(), nil, map[string]any{
		"path":    filepath.Join(t.TempDir(), "missing.csv"),
		"columns": []any{"id"},
	})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

// --- TransformSQLTask ---

func TestTransformSQLTask_Execute_FromContextData(t *testing.T) {
	view := newFakeView().add("fetch", map[string]any{
		"data": []any{
			map[string]any{"id": float64(1), "name": "alpha"},
			map[string]any{"id": float64(2), "name": "o'brien"},
		},
	})

	tk := NewTransformSQLTask(discardLogger())
	result, err := tk.Execute(context.Background(), view, map[string]any{
		"table_name": "users",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["source_node"] != "fetch" {
		t.Errorf("source_node = %v, want fetch", m["source_node"])
	}
	if m["rows"] != 2 {
		t.Errorf("rows = %v, want 2", m["rows"])
	}

	statements := m["statements"].([]string)
	if len(statements) != 3 {
		t.Fatalf("statements = %d, want CREATE TABLE plus 2 INSERT", len(statements))
	}
	if !strings.HasPrefix(statements[0], "CREATE TABLE IF NOT EXISTS users") {
		t.Errorf("statements[0] = %q, want CREATE TABLE", statements[0])
	}

	// Одинарные кавычки экранированы
	found := false
	for _, stmt := range statements[1:] {
		if strings.Contains(stmt, "'o''brien'") {
			found = true
		}
	}
	if !found {
		t.Error("single quotes in values should be escaped")
	}
}

func TestTransformSQLTask_Execute_SelectColumns(t *testing.T) {
	view := newFakeView().add("fetch", map[string]any{
		"data": []any{
			map[string]any{"id": float64(1), "name": "alpha", "secret": "x"},
		},
	})

	tk := NewTransformSQLTask(discardLogger())
	result, err := tk.Execute(context.Background(), view, map[string]any{
		"table_name":     "users",
		"select_columns": []any{"id", "name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	statements := result.(map[string]any)["statements"].([]string)
	for _, stmt := range statements {
		if strings.Contains(stmt, "secret") {
			t.Errorf("statement %q should not mention excluded column", stmt)
		}
	}
}

func TestTransformSQLTask_Execute_SelectColumnsMissing(t *testing.T) {
	view := newFakeView().add("fetch", map[string]any{
		"data": []any{map[string]any{"id": float64(1)}},
	})

	tk := NewTransformSQLTask(discardLogger())
	_, err := tk.Execute(context.Background(), view, map[string]any{
		"table_name":     "users",
		"select_columns": []any{"ghost"},
	})
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("err = %v, want missing column ghost", err)
	}
}

func TestTransformSQLTask_Execute_FromCSVPath(t *testing.T) {
	path := writeCSV(t, "id,name\n1,alpha\n2,beta\n")
	view := newFakeView().add("check", map[string]any{"path": path})

	tk := NewTransformSQLTask(discardLogger())
	result, err := tk.Execute(context.Background(), view, map[string]any{
		"table_name": "rows",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["rows"] != 2 {
		t.Errorf("rows = %v, want 2", m["rows"])
	}
	statements := m["statements"].([]string)
	if !strings.Contains(statements[1], "INSERT INTO rows") {
		t.Errorf("statements[1] = %q, want INSERT", statements[1])
	}
}

func TestTransformSQLTask_Execute_ExplicitSource(t *testing.T) {
	view := newFakeView().
		add("first", map[string]any{"data": []any{map[string]any{"a": float64(1)}}}).
		add("second", map[string]any{"data": []any{map[string]any{"b": float64(2)}}})

	tk := NewTransformSQLTask(discardLogger())
	result, err := tk.Execute(context.Background(), view, map[string]any{
		"table_name": "t",
		"source":     "second",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["source_node"] != "second" {
		t.Error("explicit source should take precedence over scan order")
	}
}

func TestTransformSQLTask_Execute_NoData(t *testing.T) {
	tk := NewTransformSQLTask(discardLogger())
	_, err := tk.Execute(context.Background(), newFakeView(), map[string]any{
		"table_name": "users",
	})
	if err == nil || !strings.Contains(err.Error(), "no tabular data") {
		t.Errorf("err = %v, want no tabular data error", err)
	}
}

// --- SaveDBTask ---

func TestSaveDBTask_Execute_NoPool(t *testing.T) {
	tk := NewSaveDBTask(nil, discardLogger())
	_, err := tk.Execute(context.Background(), newFakeView(), map[string]any{})
	if !errors.Is(err, ErrNoDatabase) {
		t.Errorf("err = %v, want ErrNoDatabase", err)
	}
}

// --- NotifyTask ---

func TestNotifyTask_ValidateParams(t *testing.T) {
	tk := NewNotifyTask(nil, discardLogger())

	tests := []struct {
		name   string
		params map[string]any
		wantOK bool
	}{
		{"valid", map[string]any{"channel": "slack", "message": "done"}, true},
		{"missing channel", map[string]any{"message": "done"}, false},
		{"missing message", map[string]any{"channel": "slack"}, false},
		{"bad channel", map[string]any{"channel": "pigeon", "message": "done"}, false},
		{"too long message", map[string]any{"channel": "slack", "message": strings.Repeat("x", 501)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tk.ValidateParams(tt.params)
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && !errors.Is(err, task.ErrInvalidParams) {
				t.Errorf("err = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestNotifyTask_Execute_WithoutBroker(t *testing.T) {
	tk := NewNotifyTask(nil, discardLogger())

	result, err := tk.Execute(context.Background(), nil, map[string]any{
		"channel": "console",
		"message": "pipeline finished",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := result.(map[string]any)
	if m["sent"] != true {
		t.Error("sent should be true")
	}
	if m["channel"] != "console" {
		t.Errorf("channel = %v, want console", m["channel"])
	}
}

// --- RegisterBuiltins ---

func TestRegisterBuiltins(t *testing.T) {
	registry := task.NewRegistry()

	if err := RegisterBuiltins(registry, Deps{Logger: discardLogger()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, taskType := range []string{TaskTypeHTTPGet, TaskTypeValidateCSV, TaskTypeTransformSQL, TaskTypeSaveDB, TaskTypeNotify} {
		if !registry.Has(taskType) {
			t.Errorf("%s should be registered", taskType)
		}
	}

	// Повторная регистрация отклоняется реестром
	err := RegisterBuiltins(registry, Deps{Logger: discardLogger()})
	if !errors.Is(err, task.ErrDuplicateTaskType) {
		t.Errorf("err = %v, want ErrDuplicateTaskType", err)
	}
}

// --- params helpers ---

func TestParamHelpers(t *testing.T) {
	params := map[string]any{
		"str":     "value",
		"int":     float64(42),
		"bool":    true,
		"list":    []any{"a", "b"},
		"strmap":  map[string]any{"k": "v"},
		"wrong":   12,
		"numlist": []any{1, 2},
	}

	if paramString(params, "str") != "value" {
		t.Error("paramString failed")
	}
	if paramString(params, "wrong") != "" {
		t.Error("paramString should ignore non-strings")
	}
	if paramInt(params, "int") != 42 {
		t.Error("paramInt should convert float64")
	}
	if !paramBool(params, "bool", false) {
		t.Error("paramBool failed")
	}
	if !paramBool(params, "missing", true) {
		t.Error("paramBool should fall back to default")
	}
	if list := paramStringSlice(params, "list"); len(list) != 2 || list[0] != "a" {
		t.Errorf("paramStringSlice = %v", list)
	}
	if list := paramStringSlice(params, "numlist"); len(list) != 0 {
		t.Errorf("paramStringSlice should drop non-strings, got %v", list)
	}
	if m := paramMapString(params, "strmap"); m["k"] != "v" {
		t.Errorf("paramMapString = %v", m)
	}
}
