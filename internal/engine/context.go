package engine

// runContext — общий контекст одного запуска.
//
// Владеет им движок: ровно одна запись на узел, строго после возврата
// из Worker. Задачи получают контекст как task.ContextView — только
// чтение. Контекст живёт один запуск и никогда не разделяется между
// запусками.
//
// Блокировок нет: v1 строго последовательный, конкурентных читателей
// не существует. Реализация, добавляющая параллелизм, обязана закрыть
// контекст мьютексом или актором.
type runContext struct {
	results map[string]any
	order   []string
}

// newRunContext создаёт пустой контекст запуска.
func newRunContext() *runContext {
	return &runContext{
		results: make(map[string]any),
	}
}

// set записывает результат узла. Вызывается движком ровно один раз
// на узел.
func (c *runContext) set(nodeID string, result any) {
	if _, exists := c.results[nodeID]; exists {
		return
	}
	c.results[nodeID] = result
	c.order = append(c.order, nodeID)
}

// Result возвращает результат узла по ID.
func (c *runContext) Result(nodeID string) (any, bool) {
	result, ok := c.results[nodeID]
	return result, ok
}

// NodeIDs возвращает ID узлов в порядке их завершения.
func (c *runContext) NodeIDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}
