package task

import (
	"fmt"
	"sort"
	"sync"
)

// Registration — заявка на регистрацию типа задачи.
type Registration struct {
	// Descriptor — метаданные типа.
	Descriptor Descriptor

	// New — конструктор свежего экземпляра стратегии.
	New func() Task
}

// Registry — реестр типов задач.
//
// Отображает дискриминатор типа на конструктор стратегии.
// Реестр — явное состояние с жизненным циклом init/clear, а не
// глобальная переменная: тесты сбрасывают его детерминированно.
// Потокобезопасен.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Registration),
	}
}

// Register регистрирует тип задачи.
//
// Ошибки: пустой дискриминатор, nil-конструктор, повторная регистрация
// того же типа. Замена требует предварительного Clear (нужно в основном
// для изоляции тестов).
func (r *Registry) Register(reg Registration) error {
	if reg.Descriptor.Type == "" {
		return ErrMissingTaskType
	}
	if reg.New == nil {
		return fmt.Errorf("%w: %s", ErrNilConstructor, reg.Descriptor.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[reg.Descriptor.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTaskType, reg.Descriptor.Type)
	}

	r.entries[reg.Descriptor.Type] = reg
	return nil
}

// Create возвращает свежий экземпляр стратегии для типа.
// Экземпляры не кэшируются: каждая команда получает собственный.
func (r *Registry) Create(taskType string) (Task, error) {
	r.mu.RLock()
	reg, exists := r.entries[taskType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTaskType, taskType)
	}

	return reg.New(), nil
}

// Has проверяет, зарегистрирован ли тип.
func (r *Registry) Has(taskType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[taskType]
	return exists
}

// List возвращает дескрипторы всех зарегистрированных типов,
// отсортированные по дискриминатору. Живые экземпляры не раскрываются.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.entries))
	for _, reg := range r.entries {
		descriptors = append(descriptors, reg.Descriptor)
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Type < descriptors[j].Type
	})
	return descriptors
}

// Count возвращает количество зарегистрированных типов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear очищает реестр.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]Registration)
}
