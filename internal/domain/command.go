package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TaskCommand — инструкция на выполнение одного узла.
//
// Эфемерный объект: движок строит команду для каждого узла каждого
// запуска, Worker владеет ею на время одного вызова Execute.
// Команда никогда не сохраняется в хранилище.
type TaskCommand struct {
	// RunID — идентификатор запуска workflow.
	RunID uuid.UUID `json:"run_id"`

	// NodeKey — ID узла внутри workflow.
	NodeKey string `json:"node_key"`

	// Type — дискриминатор типа задачи.
	Type string `json:"type"`

	// Params — параметры узла из определения workflow.
	Params map[string]any `json:"params,omitempty"`

	// Metadata — опциональная служебная информация (имя workflow и т.п.).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// String возвращает компактное представление команды для логов.
func (c TaskCommand) String() string {
	return fmt.Sprintf("<TaskCommand type=%s node=%s run=%s>", c.Type, c.NodeKey, c.RunID)
}
