package tasks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/orkestra-io/orkestra/internal/task"
)

// TaskTypeTransformSQL — тип задачи трансформации в SQL.
const TaskTypeTransformSQL = "transform_sql"

// TransformSQLTask — задача преобразования данных контекста в SQL.
//
// Берёт строки данных из результата узла-предшественника (http_get или
// validate_csv) и генерирует CREATE TABLE + INSERT statements. Узел
// save_db затем выполняет их в базе.
//
// Параметры:
//
//	{
//	    "table_name": "users",
//	    "select_columns": ["id", "name"],  // опционально
//	    "source": "fetch"                  // опционально: ID узла-источника
//	}
//
// Результат:
//
//	{
//	    "statements": ["CREATE TABLE ...", "INSERT INTO ...", ...],
//	    "table_name": "users",
//	    "source_node": "fetch",
//	    "rows": 10,
//	    "columns": ["id", "name"]
//	}
type TransformSQLTask struct {
	task.Base

	logger *slog.Logger
}

// NewTransformSQLTask создаёт новую TransformSQLTask.
func NewTransformSQLTask(logger *slog.Logger) *TransformSQLTask {
	return &TransformSQLTask{logger: logger}
}

// TransformSQLDescriptor возвращает метаданные типа transform_sql.
func TransformSQLDescriptor() task.Descriptor {
	return task.Descriptor{
		Type:        TaskTypeTransformSQL,
		DisplayName: "Transform to SQL",
		Description: "Преобразует данные предыдущих узлов в SQL INSERT statements.",
		Category:    "Трансформация",
		Icon:        "wand-2",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"table_name": map[string]any{"type": "string"},
				"select_columns": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"source": map[string]any{"type": "string"},
			},
			"required": []string{"table_name"},
		},
	}
}

// ValidateParams проверяет table_name и select_columns.
func (t *TransformSQLTask) ValidateParams(params map[string]any) error {
	if paramString(params, "table_name") == "" {
		return task.NewValidationError("table_name", "is required")
	}
	if _, ok := params["select_columns"]; ok {
		if len(paramStringSlice(params, "select_columns")) == 0 {
			return task.NewValidationError("select_columns", "must be a non-empty list of strings")
		}
	}
	return nil
}

// Execute извлекает строки из контекста и генерирует SQL statements.
func (t *TransformSQLTask) Execute(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	tableName := paramString(params, "table_name")
	selectColumns := paramStringSlice(params, "select_columns")

	rows, sourceNode, err := t.findRows(view, paramString(params, "source"))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("source data is empty")
	}

	columns := collectColumns(rows)

	if len(selectColumns) > 0 {
		var missing []string
		for _, col := range selectColumns {
			if !slices.Contains(columns, col) {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing columns %v: available %v", missing, columns)
		}
		columns = selectColumns
	}

	statements := make([]string, 0, len(rows)+1)
	statements = append(statements, createTableStatement(tableName, columns, rows))
	for _, row := range rows {
		statements = append(statements, insertStatement(tableName, columns, row))
	}

	return map[string]any{
		"statements":  statements,
		"table_name":  tableName,
		"source_node": sourceNode,
		"rows":        len(rows),
		"columns":     columns,
	}, nil
}

// Before логирует начало трансформации.
func (t *TransformSQLTask) Before(ctx context.Context, params map[string]any) error {
	t.logger.Info("transforming context data to SQL", "table", paramString(params, "table_name"))
	return nil
}

// After логирует количество сгенерированных statements.
func (t *TransformSQLTask) After(result any) error {
	if m, ok := result.(map[string]any); ok {
		t.logger.Info("SQL transformation complete",
			"rows", m["rows"],
			"source_node", m["source_node"],
		)
	}
	return nil
}

// findRows ищет табличные данные в результатах предшественников.
//
// Если source задан, данные берутся только из него. Иначе узлы
// просматриваются в порядке появления в контексте: подходит первый
// результат с полем data, body или path (CSV файл).
func (t *TransformSQLTask) findRows(view task.ContextView, source string) ([]map[string]any, string, error) {
	nodeIDs := view.NodeIDs()
	if source != "" {
		nodeIDs = []string{source}
	}

	for _, nodeID := range nodeIDs {
		result, ok := view.Result(nodeID)
		if !ok {
			if source != "" {
				return nil, "", fmt.Errorf("source node %q has no result in context", source)
			}
			continue
		}

		m, ok := result.(map[string]any)
		if !ok {
			continue
		}

		if data, ok := m["data"]; ok {
			rows, err := asRows(data)
			if err != nil {
				return nil, "", fmt.Errorf("node %q: %w", nodeID, err)
			}
			return rows, nodeID, nil
		}

		if body, ok := m["body"]; ok {
			// Ответы API нередко оборачивают список в поле "data".
			if obj, ok := body.(map[string]any); ok {
				if data, ok := obj["data"]; ok {
					body = data
				}
			}
			rows, err := asRows(body)
			if err != nil {
				return nil, "", fmt.Errorf("node %q: %w", nodeID, err)
			}
			return rows, nodeID, nil
		}

		if path, ok := m["path"].(string); ok {
			rows, err := readCSVRows(path)
			if err != nil {
				return nil, "", fmt.Errorf("node %q: %w", nodeID, err)
			}
			return rows, nodeID, nil
		}
	}

	return nil, "", fmt.Errorf(
		"no tabular data found in context: connect this node to http_get or validate_csv (available nodes: %v)",
		view.NodeIDs(),
	)
}

// asRows приводит значение к списку строк-записей.
func asRows(data any) ([]map[string]any, error) {
	switch v := data.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, item := range v {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected list of objects, found element of type %T", item)
			}
			rows = append(rows, row)
		}
		return rows, nil
	case map[string]any:
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("expected list of objects or object, got %T", data)
	}
}

// readCSVRows читает CSV файл в список записей.
func readCSVRows(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %w", path, err)
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}

		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = parseCSVValue(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseCSVValue пытается распознать число в строковом значении CSV.
func parseCSVValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// collectColumns собирает имена колонок в порядке первого появления.
func collectColumns(rows []map[string]any) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for key := range row {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

// createTableStatement строит CREATE TABLE с типами по первым значениям.
func createTableStatement(tableName string, columns []string, rows []map[string]any) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", col, inferSQLType(col, rows)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(defs, ", "))
}

// inferSQLType определяет SQL тип по первому непустому значению колонки.
func inferSQLType(column string, rows []map[string]any) string {
	for _, row := range rows {
		val, ok := row[column]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case bool:
			return "BOOLEAN"
		case int, int64:
			return "BIGINT"
		case float64:
			if v == math.Trunc(v) {
				return "BIGINT"
			}
			return "DOUBLE PRECISION"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

// insertStatement строит один INSERT для строки данных.
func insertStatement(tableName string, columns []string, row map[string]any) string {
	values := make([]string, 0, len(columns))
	for _, col := range columns {
		values = append(values, sqlLiteral(row[col]))
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(values, ", "),
	)
}

// sqlLiteral форматирует значение как SQL литерал с экранированием кавычек.
func sqlLiteral(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", "''") + "'"
	}
}
