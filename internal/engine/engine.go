package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/orkestra-io/orkestra/internal/domain"
	"github.com/orkestra-io/orkestra/internal/mq"
	"github.com/orkestra-io/orkestra/internal/task"
	"github.com/orkestra-io/orkestra/internal/telemetry"
)

// CommandExecutor — исполнитель команд задач (Worker).
type CommandExecutor interface {
	Execute(ctx context.Context, cmd domain.TaskCommand, view task.ContextView) domain.StepOutcome
}

// Repository — узкий контракт хранилища запусков.
//
// Движок вызывает его синхронно в документированных точках и не
// зависит от конкретной технологии хранения. Любая ошибка хранилища
// фатальна для текущего запуска и не повторяется.
type Repository interface {
	// CreateRun создаёт запись запуска в статусе RUNNING.
	CreateRun(ctx context.Context, workflowName string, startedAt time.Time) (uuid.UUID, error)

	// RecordNodeRun записывает итог выполнения одного узла.
	RecordNodeRun(ctx context.Context, runID uuid.UUID, rec domain.NodeRun) error

	// UpdateRun переводит запись запуска в терминальный статус
	// с полной картой результатов.
	UpdateRun(ctx context.Context, runID uuid.UUID, status domain.WorkflowStatus, results map[string]domain.StepOutcome, finishedAt time.Time) error
}

// Engine — оркестратор workflow.
//
// Определяет порядок выполнения из графа зависимостей, гоняет Worker
// по готовым узлам, расширяет общий контекст, классифицирует каскады
// пропусков при падениях и вычисляет агрегированный результат.
type Engine struct {
	worker    CommandExecutor
	repo      Repository
	publisher *mq.Publisher
	logger    *slog.Logger
}

// Config — конфигурация Engine.
type Config struct {
	// Worker — исполнитель команд. Обязателен.
	Worker CommandExecutor

	// Repo — хранилище запусков. nil → запуск без персистентности.
	Repo Repository

	// Publisher — публикация событий о завершении запусков в RabbitMQ.
	// nil → события не публикуются.
	Publisher *mq.Publisher

	// Logger — логгер. nil → slog.Default().
	Logger *slog.Logger
}

// New создаёт новый Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		worker:    cfg.Worker,
		repo:      cfg.Repo,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}

// Run выполняет workflow и возвращает агрегированный результат.
//
// Алгоритм — итеративный fixed point, не полная топологическая
// сортировка: на каждой итерации выполняется каждый узел из pending,
// все зависимости которого уже завершены, в порядке определения.
// Полный проход без прогресса при непустом pending — фатальная ошибка
// оркестрации (цикл либо висячая ссылка); ни один из оставшихся узлов
// не получает StepOutcome.
//
// Падение отдельного узла не прерывает независимые ветки: все его
// транзитивные зависимые помечаются SKIPPED и в Worker не попадают.
func (e *Engine) Run(ctx context.Context, wf *domain.WorkflowDefinition) (*domain.WorkflowResult, error) {
	logger := telemetry.WithWorkflow(e.logger, wf.Name)
	startedAt := time.Now()

	runID, err := e.createRun(ctx, wf.Name, startedAt)
	if err != nil {
		return nil, err
	}

	logger = telemetry.WithRunID(logger, runID.String())
	logger.Info("workflow started", "nodes", len(wf.Nodes))

	state := newRunExecution(wf, runID)

	for len(state.pending) > 0 {
		progress := false

		for _, nodeID := range state.order {
			node, waiting := state.pending[nodeID]
			if !waiting || !state.ready(node) {
				continue
			}

			outcome := e.executeNode(ctx, state, node, logger)
			if err := e.recordNode(ctx, state, node, outcome); err != nil {
				return nil, err
			}
			progress = true

			if outcome.Status == domain.NodeStatusFailed {
				if err := e.cascadeSkip(ctx, state, node.ID, logger); err != nil {
					return nil, err
				}
			}
		}

		if !progress {
			return nil, fmt.Errorf("%w: stuck nodes %v", ErrUnresolvedDependency, state.stuck())
		}
	}

	finishedAt := time.Now()
	result := &domain.WorkflowResult{
		WorkflowName: wf.Name,
		Status:       domain.AggregateStatus(state.results),
		Results:      state.results,
	}

	if err := e.finishRun(ctx, runID, result, finishedAt); err != nil {
		return nil, err
	}

	telemetry.ObserveRun(string(result.Status), finishedAt.Sub(startedAt))
	e.publishCompletion(ctx, runID, result, logger)

	logger.Info("workflow finished",
		"status", result.Status,
		"duration", finishedAt.Sub(startedAt),
	)

	return result, nil
}

// executeNode строит команду и отдаёт её Worker.
func (e *Engine) executeNode(ctx context.Context, state *runExecution, node *domain.WorkflowNode, logger *slog.Logger) domain.StepOutcome {
	logger.Info("executing node", "node_id", node.ID, "type", node.Type)

	cmd := domain.TaskCommand{
		RunID:   state.runID,
		NodeKey: node.ID,
		Type:    node.Type,
		Params:  node.Params,
		Metadata: map[string]any{
			"workflow": state.workflow.Name,
		},
	}

	return e.worker.Execute(ctx, cmd, state.context)
}

// recordNode фиксирует итог узла: результат, контекст, хранилище.
func (e *Engine) recordNode(ctx context.Context, state *runExecution, node *domain.WorkflowNode, outcome domain.StepOutcome) error {
	state.complete(node.ID, outcome)

	if outcome.Status == domain.NodeStatusSuccess {
		state.context.set(node.ID, outcome.Result)
	}

	return e.persistNode(ctx, state.runID, node, outcome)
}

// cascadeSkip помечает все транзитивные зависимые упавшего узла
// как SKIPPED. Пропущенные узлы не отправляются в Worker и удаляются
// из pending без выполнения.
func (e *Engine) cascadeSkip(ctx context.Context, state *runExecution, failedID string, logger *slog.Logger) error {
	queue := append([]string(nil), state.dependents[failedID]...)

	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]

		node, waiting := state.pending[nodeID]
		if !waiting {
			continue
		}

		logger.Warn("skipping node: failed dependency",
			"node_id", nodeID,
			"failed_node", failedID,
		)

		now := time.Now()
		outcome := domain.StepOutcome{
			Status:     domain.NodeStatusSkipped,
			Reason:     fmt.Sprintf("dependency failed: %s", failedID),
			StartedAt:  now,
			FinishedAt: now,
		}
		state.complete(nodeID, outcome)
		telemetry.ObserveStep(node.Type, string(domain.NodeStatusSkipped))

		if err := e.persistNode(ctx, state.runID, node, outcome); err != nil {
			return err
		}

		queue = append(queue, state.dependents[nodeID]...)
	}

	return nil
}

// createRun регистрирует запуск в хранилище и возвращает его ID.
// Без хранилища ID генерируется локально.
func (e *Engine) createRun(ctx context.Context, name string, startedAt time.Time) (uuid.UUID, error) {
	if e.repo == nil {
		return uuid.New(), nil
	}

	runID, err := e.repo.CreateRun(ctx, name, startedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: create run: %v", ErrRepository, err)
	}
	return runID, nil
}

// persistNode записывает итог узла в хранилище.
func (e *Engine) persistNode(ctx context.Context, runID uuid.UUID, node *domain.WorkflowNode, outcome domain.StepOutcome) error {
	if e.repo == nil {
		return nil
	}

	errMsg := outcome.Error
	if errMsg == "" {
		errMsg = outcome.Reason
	}

	rec := domain.NodeRun{
		NodeID:     node.ID,
		Type:       node.Type,
		Status:     outcome.Status,
		StartedAt:  outcome.StartedAt,
		FinishedAt: outcome.FinishedAt,
		Result:     outcome.Result,
		Error:      errMsg,
	}

	if err := e.repo.RecordNodeRun(ctx, runID, rec); err != nil {
		return fmt.Errorf("%w: record node %s: %v", ErrRepository, node.ID, err)
	}
	return nil
}

// finishRun переводит запись запуска в терминальный статус.
func (e *Engine) finishRun(ctx context.Context, runID uuid.UUID, result *domain.WorkflowResult, finishedAt time.Time) error {
	if e.repo == nil {
		return nil
	}

	if err := e.repo.UpdateRun(ctx, runID, result.Status, result.Results, finishedAt); err != nil {
		return fmt.Errorf("%w: update run: %v", ErrRepository, err)
	}
	return nil
}

// publishCompletion публикует событие о завершении запуска.
// Ошибка публикации не фатальна: результат уже вычислен и сохранён.
func (e *Engine) publishCompletion(ctx context.Context, runID uuid.UUID, result *domain.WorkflowResult, logger *slog.Logger) {
	if e.publisher == nil {
		return
	}

	payload := mq.RunCompletedPayload{
		RunID:    runID,
		Workflow: result.WorkflowName,
		Status:   string(result.Status),
	}
	for _, outcome := range result.Results {
		switch outcome.Status {
		case domain.NodeStatusSuccess:
			payload.Succeeded++
		case domain.NodeStatusFailed:
			payload.Failed++
		case domain.NodeStatusSkipped:
			payload.Skipped++
		}
	}

	if err := e.publisher.PublishRunCompleted(ctx, payload); err != nil {
		logger.Warn("failed to publish run.completed", "error", err)
	}
}

// runExecution — состояние одного запуска внутри Run.
type runExecution struct {
	workflow *domain.WorkflowDefinition
	runID    uuid.UUID

	// order — ID узлов в порядке определения (тай-брейк для
	// одновременно готовых узлов).
	order []string

	// pending — узлы, ещё не получившие StepOutcome.
	pending map[string]*domain.WorkflowNode

	// executed — узлы, завершившиеся выполнением (SUCCESS или FAILED).
	// Пропущенные узлы сюда не попадают: их зависимые пропускаются
	// тем же каскадом.
	executed map[string]bool

	// dependents — обратный индекс зависимостей (узел → зависимые).
	dependents map[string][]string

	// results — итог по каждому узлу.
	results map[string]domain.StepOutcome

	// context — общий контекст запуска.
	context *runContext
}

// newRunExecution подготавливает состояние запуска.
func newRunExecution(wf *domain.WorkflowDefinition, runID uuid.UUID) *runExecution {
	state := &runExecution{
		workflow:   wf,
		runID:      runID,
		order:      make([]string, 0, len(wf.Nodes)),
		pending:    make(map[string]*domain.WorkflowNode, len(wf.Nodes)),
		executed:   make(map[string]bool, len(wf.Nodes)),
		dependents: make(map[string][]string),
		results:    make(map[string]domain.StepOutcome, len(wf.Nodes)),
		context:    newRunContext(),
	}

	for i := range wf.Nodes {
		node := &wf.Nodes[i]
		state.order = append(state.order, node.ID)
		state.pending[node.ID] = node
		for _, dep := range node.DependsOn {
			state.dependents[dep] = append(state.dependents[dep], node.ID)
		}
	}

	return state
}

// ready возвращает true, если все зависимости узла выполнены.
func (s *runExecution) ready(node *domain.WorkflowNode) bool {
	for _, dep := range node.DependsOn {
		if !s.executed[dep] {
			return false
		}
	}
	return true
}

// complete фиксирует итог узла и убирает его из pending.
func (s *runExecution) complete(nodeID string, outcome domain.StepOutcome) {
	s.results[nodeID] = outcome
	delete(s.pending, nodeID)
	if outcome.Status != domain.NodeStatusSkipped {
		s.executed[nodeID] = true
	}
}

// stuck возвращает ID узлов, оставшихся в pending, в порядке определения.
func (s *runExecution) stuck() []string {
	ids := make([]string, 0, len(s.pending))
	for _, nodeID := range s.order {
		if _, waiting := s.pending[nodeID]; waiting {
			ids = append(ids, nodeID)
		}
	}
	return ids
}
