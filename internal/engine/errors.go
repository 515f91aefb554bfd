package engine

import "errors"

// Ошибки валидации определения workflow.
var (
	// ErrEmptyNodes — workflow не содержит узлов.
	ErrEmptyNodes = errors.New("workflow has no nodes")

	// ErrEmptyNodeID — узел без ID.
	ErrEmptyNodeID = errors.New("node has empty ID")

	// ErrDuplicateNodeID — несколько узлов с одинаковым ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrEmptyNodeType — узел без типа задачи.
	ErrEmptyNodeType = errors.New("node has empty type")

	// ErrSelfDependency — узел зависит от самого себя.
	ErrSelfDependency = errors.New("node depends on itself")

	// ErrMissingDependency — узел зависит от несуществующего узла.
	ErrMissingDependency = errors.New("node depends on unknown node")
)

// Ошибки оркестрации.
var (
	// ErrUnresolvedDependency — обход зависимостей не продвигается:
	// цикл или висячая ссылка. Фатально для всего запуска.
	ErrUnresolvedDependency = errors.New("unresolved dependency: cycle or dangling reference")

	// ErrRepository — хранилище вернуло ошибку. Движок вызывает его
	// синхронно и считает любую ошибку фатальной для текущего запуска.
	ErrRepository = errors.New("repository failure")
)

// DefinitionError — ошибка валидации определения с контекстом.
type DefinitionError struct {
	NodeID  string // ID узла, где найдена проблема
	Field   string // поле, вызвавшее ошибку
	Message string // описание
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *DefinitionError) Error() string {
	if e.NodeID != "" {
		return "node " + e.NodeID + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// NewDefinitionError создаёт ошибку валидации определения.
func NewDefinitionError(nodeID, field, message string, err error) *DefinitionError {
	return &DefinitionError{
		NodeID:  nodeID,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
