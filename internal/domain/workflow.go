package domain

// WorkflowNode — один шаг в определении workflow.
type WorkflowNode struct {
	// ID — уникальный идентификатор узла в рамках workflow.
	// Используется в depends_on и как ключ результата в общем контексте.
	ID string `json:"id"`

	// Type — дискриминатор типа задачи (соответствует Descriptor.Type
	// зарегистрированной стратегии).
	Type string `json:"type"`

	// Params — конфигурация узла, передаётся стратегии без изменений.
	Params map[string]any `json:"params,omitempty"`

	// DependsOn — ID узлов, которые должны завершиться до этого узла.
	// Каждый ID обязан ссылаться на существующий узел того же workflow,
	// граф зависимостей должен быть ацикличным.
	DependsOn []string `json:"depends_on,omitempty"`
}

// WorkflowDefinition — декларативное определение workflow.
//
// Создаётся один раз из внешнего источника (JSON) и не изменяется
// на протяжении запуска. Порядок Nodes значим: при нескольких
// одновременно готовых узлах движок выполняет их в порядке определения.
type WorkflowDefinition struct {
	// Name — имя workflow (например, "csv-ingest", "daily-report").
	Name string `json:"name"`

	// Nodes — упорядоченный список узлов.
	Nodes []WorkflowNode `json:"nodes"`
}

// Node возвращает узел по ID или nil, если узла нет.
func (w *WorkflowDefinition) Node(id string) *WorkflowNode {
	for i := range w.Nodes {
		if w.Nodes[i].ID == id {
			return &w.Nodes[i]
		}
	}
	return nil
}
