package tasks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/orkestra-io/orkestra/internal/task"
)

// TaskTypeValidateCSV — тип задачи валидации CSV.
const TaskTypeValidateCSV = "validate_csv"

// ValidateCSVTask — задача проверки структуры CSV файла.
//
// Параметры:
//
//	{
//	    "path": "data/input.csv",
//	    "columns": ["id", "name", "amount"],
//	    "allow_extra_columns": true
//	}
//
// Результат:
//
//	{
//	    "valid": true,
//	    "path": "data/input.csv",
//	    "rows": 120,
//	    "columns": ["id", "name", "amount", "note"],
//	    "has_extra_columns": true
//	}
type ValidateCSVTask struct {
	task.Base

	logger *slog.Logger
}

// NewValidateCSVTask создаёт новую ValidateCSVTask.
func NewValidateCSVTask(logger *slog.Logger) *ValidateCSVTask {
	return &ValidateCSVTask{logger: logger}
}

// ValidateCSVDescriptor возвращает метаданные типа validate_csv.
func ValidateCSVDescriptor() task.Descriptor {
	return task.Descriptor{
		Type:        TaskTypeValidateCSV,
		DisplayName: "Validate CSV",
		Description: "Проверяет, что CSV файл содержит ожидаемые колонки.",
		Category:    "Валидация",
		Icon:        "file-text",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
				"columns": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 1,
				},
				"allow_extra_columns": map[string]any{"type": "boolean", "default": true},
			},
			"required": []string{"path", "columns"},
		},
	}
}

// ValidateParams проверяет обязательные path и columns.
func (t *ValidateCSVTask) ValidateParams(params map[string]any) error {
	if paramString(params, "path") == "" {
		return task.NewValidationError("path", "is required")
	}
	if len(paramStringSlice(params, "columns")) == 0 {
		return task.NewValidationError("columns", "must be a non-empty list of strings")
	}
	return nil
}

// Execute читает CSV и сверяет колонки с ожидаемыми.
func (t *ValidateCSVTask) Execute(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	path := paramString(params, "path")
	expectedCols := paramStringSlice(params, "columns")
	allowExtra := paramBool(params, "allow_extra_columns", true)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv file is empty or unreadable: %s: %w", path, err)
	}

	rows := 0
	for {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		rows++
	}

	if rows == 0 {
		return nil, fmt.Errorf("csv file has no data rows: %s", path)
	}

	var missing []string
	for _, col := range expectedCols {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %v: expected %v, found %v", missing, expectedCols, header)
	}

	if !allowExtra {
		var extra []string
		for _, col := range header {
			if !slices.Contains(expectedCols, col) {
				extra = append(extra, col)
			}
		}
		if len(extra) > 0 {
			return nil, fmt.Errorf("unexpected columns: %v", extra)
		}
	}

	return map[string]any{
		"valid":             true,
		"path":              path,
		"rows":              rows,
		"columns":           header,
		"expected_columns":  expectedCols,
		"has_extra_columns": len(header) > len(expectedCols),
	}, nil
}

// Before логирует начало валидации.
func (t *ValidateCSVTask) Before(ctx context.Context, params map[string]any) error {
	t.logger.Info("validating CSV",
		"path", paramString(params, "path"),
		"expected_columns", len(paramStringSlice(params, "columns")),
	)
	return nil
}

// After логирует результат.
func (t *ValidateCSVTask) After(result any) error {
	if m, ok := result.(map[string]any); ok {
		t.logger.Info("CSV is valid", "rows", m["rows"])
	}
	return nil
}

// OnError логирует ошибку валидации.
func (t *ValidateCSVTask) OnError(err error) {
	t.logger.Error("CSV validation failed", "error", err)
}
