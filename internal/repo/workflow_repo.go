package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orkestra-io/orkestra/internal/domain"
)

// WorkflowRepo — репозиторий истории запусков workflow.
// Реализует engine.Repository.
type WorkflowRepo struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepo создаёт новый WorkflowRepo.
func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// Migrate создаёт таблицы, если их ещё нет.
func (r *WorkflowRepo) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS workflow_runs (
			id            UUID PRIMARY KEY,
			workflow_name TEXT NOT NULL,
			status        TEXT NOT NULL,
			results       JSONB,
			started_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS node_runs (
			id          BIGSERIAL PRIMARY KEY,
			run_id      UUID NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
			node_id     TEXT NOT NULL,
			node_type   TEXT NOT NULL,
			status      TEXT NOT NULL,
			result      JSONB,
			error       TEXT,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_node_runs_run_id ON node_runs(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_workflow_runs_name ON workflow_runs(workflow_name)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// CreateRun создаёт запись о новом запуске и возвращает его идентификатор.
func (r *WorkflowRepo) CreateRun(ctx context.Context, workflowName string, startedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()

	query := `
		INSERT INTO workflow_runs (id, workflow_name, status, started_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, id, workflowName, domain.WorkflowStatusRunning, startedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert workflow run: %w", err)
	}
	return id, nil
}

// RecordNodeRun сохраняет результат выполнения одного узла.
func (r *WorkflowRepo) RecordNodeRun(ctx context.Context, runID uuid.UUID, rec domain.NodeRun) error {
	resultJSON, err := marshalResult(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal node result: %w", err)
	}

	query := `
		INSERT INTO node_runs (run_id, node_id, node_type, status, result, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		runID,
		rec.NodeID,
		rec.Type,
		rec.Status,
		resultJSON,
		nullString(rec.Error),
		rec.StartedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert node run: %w", err)
	}
	return nil
}

// UpdateRun записывает финальный статус и результаты запуска.
func (r *WorkflowRepo) UpdateRun(ctx context.Context, runID uuid.UUID, status domain.WorkflowStatus, results map[string]domain.StepOutcome, finishedAt time.Time) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	query := `
		UPDATE workflow_runs
		SET status = $2, results = $3, finished_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, runID, status, resultsJSON, finishedAt)
	if err != nil {
		return fmt.Errorf("update workflow run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RunRecord — строка истории запусков.
type RunRecord struct {
	ID           uuid.UUID
	WorkflowName string
	Status       domain.WorkflowStatus
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// ListRuns возвращает последние запуски, новые первыми.
func (r *WorkflowRepo) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, workflow_name, status, started_at, finished_at
		FROM workflow_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.ID, &rec.WorkflowName, &rec.Status, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun возвращает запуск по идентификатору.
func (r *WorkflowRepo) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	query := `
		SELECT id, workflow_name, status, started_at, finished_at
		FROM workflow_runs
		WHERE id = $1
	`
	var rec RunRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.WorkflowName, &rec.Status, &rec.StartedAt, &rec.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &rec, nil
}

// --- Helpers ---

// marshalResult сериализует результат узла; nil остаётся NULL в БД.
func marshalResult(result any) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
