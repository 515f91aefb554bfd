package domain

import "time"

// StepOutcome — итог выполнения одного узла.
//
// SUCCESS и FAILED производит Worker, SKIPPED — движок
// (когда упал предок узла). Каждый узел получает ровно один StepOutcome
// за запуск.
type StepOutcome struct {
	// Status — итоговый статус узла.
	Status NodeStatus `json:"status"`

	// Result — полезная нагрузка при SUCCESS. Непрозрачна для движка,
	// попадает в общий контекст под ID узла.
	Result any `json:"result,omitempty"`

	// Error — нормализованное сообщение об ошибке при FAILED.
	Error string `json:"error,omitempty"`

	// Reason — причина пропуска при SKIPPED: ссылается на первый
	// упавший узел-предок на пути к этому узлу.
	Reason string `json:"reason,omitempty"`

	// StartedAt — время начала выполнения (для SKIPPED — время
	// классификации).
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время завершения.
	FinishedAt time.Time `json:"finished_at"`
}

// Duration возвращает продолжительность выполнения узла.
func (o StepOutcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// WorkflowResult — агрегированный итог запуска workflow.
//
// Единственный артефакт, переживающий запуск: возвращается вызывающему
// и зеркалируется в хранилище. После вычисления не изменяется.
type WorkflowResult struct {
	// WorkflowName — имя выполненного workflow.
	WorkflowName string `json:"workflow_name"`

	// Status — агрегированный статус:
	//   SUCCESS — все узлы SUCCESS;
	//   FAILED — ни одного SUCCESS;
	//   PARTIAL_SUCCESS — всё остальное (любая смесь со SKIPPED).
	Status WorkflowStatus `json:"status"`

	// Results — итог по каждому узлу (ID узла → StepOutcome).
	Results map[string]StepOutcome `json:"results"`
}

// AggregateStatus вычисляет агрегированный статус по набору итогов.
func AggregateStatus(results map[string]StepOutcome) WorkflowStatus {
	succeeded := 0
	for _, outcome := range results {
		if outcome.Status == NodeStatusSuccess {
			succeeded++
		}
	}

	switch {
	case succeeded == len(results):
		return WorkflowStatusSuccess
	case succeeded == 0:
		return WorkflowStatusFailed
	default:
		return WorkflowStatusPartialSuccess
	}
}

// NodeRun — запись о выполнении узла для хранилища.
type NodeRun struct {
	// NodeID — ID узла.
	NodeID string `json:"node_id"`

	// Type — тип узла.
	Type string `json:"type"`

	// Status — итоговый статус.
	Status NodeStatus `json:"status"`

	// StartedAt — время начала.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время завершения.
	FinishedAt time.Time `json:"finished_at"`

	// Result — полезная нагрузка (для SUCCESS).
	Result any `json:"result,omitempty"`

	// Error — сообщение об ошибке или причина пропуска.
	Error string `json:"error,omitempty"`
}
