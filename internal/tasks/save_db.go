package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orkestra-io/orkestra/internal/task"
)

// TaskTypeSaveDB — тип задачи сохранения в базу.
const TaskTypeSaveDB = "save_db"

// ErrNoDatabase — пул соединений не сконфигурирован.
var ErrNoDatabase = errors.New("database pool is not configured")

// SaveDBTask — задача выполнения SQL statements в PostgreSQL.
//
// Берёт statements из результата узла transform_sql и выполняет их
// в одной транзакции. Провал любого statement откатывает все.
//
// Параметры:
//
//	{
//	    "source": "transform"  // опционально: ID узла transform_sql
//	}
//
// Результат:
//
//	{
//	    "source_node": "transform",
//	    "table_name": "users",
//	    "executed_statements": 11,
//	    "rows_in_table": 10
//	}
type SaveDBTask struct {
	task.Base

	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSaveDBTask создаёт новую SaveDBTask.
func NewSaveDBTask(pool *pgxpool.Pool, logger *slog.Logger) *SaveDBTask {
	return &SaveDBTask{pool: pool, logger: logger}
}

// SaveDBDescriptor возвращает метаданные типа save_db.
func SaveDBDescriptor() task.Descriptor {
	return task.Descriptor{
		Type:        TaskTypeSaveDB,
		DisplayName: "Save to Database",
		Description: "Выполняет SQL statements узла transform_sql в PostgreSQL.",
		Category:    "Выходные",
		Icon:        "database",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"source": map[string]any{"type": "string"},
			},
		},
	}
}

// ValidateParams — у save_db нет обязательных параметров.
func (t *SaveDBTask) ValidateParams(params map[string]any) error {
	return nil
}

// Execute выполняет SQL statements из контекста в транзакции.
func (t *SaveDBTask) Execute(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	if t.pool == nil {
		return nil, ErrNoDatabase
	}

	statements, tableName, sourceNode, err := t.findStatements(view, paramString(params, "source"))
	if err != nil {
		return nil, err
	}

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("execute statement %d/%d: %w", i+1, len(statements), err)
		}
	}

	var rowsInTable int64
	if err := tx.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&rowsInTable); err != nil {
		return nil, fmt.Errorf("count rows in %s: %w", tableName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return map[string]any{
		"source_node":         sourceNode,
		"table_name":          tableName,
		"executed_statements": len(statements),
		"rows_in_table":       rowsInTable,
	}, nil
}

// Before логирует начало записи.
func (t *SaveDBTask) Before(ctx context.Context, params map[string]any) error {
	t.logger.Info("saving SQL statements to database")
	return nil
}

// After логирует итог записи.
func (t *SaveDBTask) After(result any) error {
	if m, ok := result.(map[string]any); ok {
		t.logger.Info("database save complete",
			"table", m["table_name"],
			"executed", m["executed_statements"],
			"rows_in_table", m["rows_in_table"],
		)
	}
	return nil
}

// OnError логирует ошибку записи.
func (t *SaveDBTask) OnError(err error) {
	t.logger.Error("database save failed", "error", err)
}

// findStatements ищет результат transform_sql в контексте.
func (t *SaveDBTask) findStatements(view task.ContextView, source string) ([]string, string, string, error) {
	nodeIDs := view.NodeIDs()
	if source != "" {
		nodeIDs = []string{source}
	}

	for _, nodeID := range nodeIDs {
		result, ok := view.Result(nodeID)
		if !ok {
			if source != "" {
				return nil, "", "", fmt.Errorf("source node %q has no result in context", source)
			}
			continue
		}

		m, ok := result.(map[string]any)
		if !ok {
			continue
		}

		rawStatements, hasStatements := m["statements"]
		tableName, hasTable := m["table_name"].(string)
		if !hasStatements || !hasTable {
			continue
		}

		statements, err := asStringSlice(rawStatements)
		if err != nil {
			return nil, "", "", fmt.Errorf("node %q: statements: %w", nodeID, err)
		}
		if len(statements) == 0 {
			return nil, "", "", fmt.Errorf("node %q produced no SQL statements", nodeID)
		}

		return statements, tableName, nodeID, nil
	}

	return nil, "", "", fmt.Errorf(
		"no SQL statements found in context: connect this node to transform_sql (available nodes: %v)",
		view.NodeIDs(),
	)
}

// asStringSlice приводит значение к списку строк.
func asStringSlice(v any) ([]string, error) {
	switch raw := v.(type) {
	case []string:
		return raw, nil
	case []any:
		result := make([]string, 0, len(raw))
		for _, item := range raw {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			result = append(result, s)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}
