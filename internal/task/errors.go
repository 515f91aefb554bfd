package task

import (
	"errors"
	"fmt"
)

// Ошибки реестра.
var (
	// ErrMissingTaskType — дескриптор не содержит дискриминатор типа.
	ErrMissingTaskType = errors.New("task descriptor has empty type")

	// ErrNilConstructor — регистрация без конструктора.
	ErrNilConstructor = errors.New("task constructor is nil")

	// ErrDuplicateTaskType — тип уже зарегистрирован.
	ErrDuplicateTaskType = errors.New("task type already registered")

	// ErrUnknownTaskType — тип не зарегистрирован.
	ErrUnknownTaskType = errors.New("unknown task type")
)

// ErrInvalidParams — базовая ошибка валидации параметров.
var ErrInvalidParams = errors.New("invalid task params")

// ValidationError — ошибка валидации параметров с указанием поля.
type ValidationError struct {
	Field   string // имя отсутствующего или некорректного параметра
	Message string // описание проблемы
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("param %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap возвращает ErrInvalidParams, чтобы работал errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidParams
}

// NewValidationError создаёт ошибку валидации для поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
