package domain

// NodeStatus — итоговый статус выполнения узла.
//
// Присваивается ровно один раз за запуск:
//
//	SUCCESS — Worker выполнил узел без ошибки
//	FAILED  — из цепочки выполнения вышла ошибка
//	SKIPPED — предок узла упал, узел не отправлялся в Worker
type NodeStatus string

const (
	// NodeStatusSuccess — узел выполнен успешно.
	NodeStatusSuccess NodeStatus = "SUCCESS"

	// NodeStatusFailed — выполнение узла завершилось ошибкой.
	NodeStatusFailed NodeStatus = "FAILED"

	// NodeStatusSkipped — узел пропущен из-за упавшей зависимости.
	NodeStatusSkipped NodeStatus = "SKIPPED"
)

// IsTerminal возвращает true: все статусы узла финальные.
// Узел не имеет промежуточных состояний — он либо выполнен, либо пропущен.
func (s NodeStatus) IsTerminal() bool {
	switch s {
	case NodeStatusSuccess, NodeStatusFailed, NodeStatusSkipped:
		return true
	default:
		return false
	}
}

// WorkflowStatus — статус запуска workflow.
//
// Жизненный цикл записи о запуске:
//
//	RUNNING → SUCCESS
//	        ↘ PARTIAL_SUCCESS
//	        ↘ FAILED
type WorkflowStatus string

const (
	// WorkflowStatusRunning — запуск в процессе выполнения.
	// Используется только записью в хранилище; итоговый WorkflowResult
	// всегда содержит терминальный статус.
	WorkflowStatusRunning WorkflowStatus = "RUNNING"

	// WorkflowStatusSuccess — все узлы завершились со статусом SUCCESS.
	WorkflowStatusSuccess WorkflowStatus = "SUCCESS"

	// WorkflowStatusPartialSuccess — часть узлов успешна, часть упала
	// или была пропущена.
	WorkflowStatusPartialSuccess WorkflowStatus = "PARTIAL_SUCCESS"

	// WorkflowStatusFailed — ни один узел не завершился успешно.
	WorkflowStatusFailed WorkflowStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s WorkflowStatus) IsTerminal() bool {
	switch s {
	case WorkflowStatusSuccess, WorkflowStatusPartialSuccess, WorkflowStatusFailed:
		return true
	default:
		return false
	}
}
