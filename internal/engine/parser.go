package engine

import (
	"encoding/json"
	"fmt"

	"github.com/orkestra-io/orkestra/internal/domain"
)

// defaultWorkflowName используется, когда источник не задал имя.
const defaultWorkflowName = "unnamed-workflow"

// ParseDefinition строит WorkflowDefinition из JSON.
//
// Формат источника:
//
//	{
//	  "name": "csv-ingest",
//	  "nodes": [
//	    {"id": "fetch", "type": "http_get", "params": {"url": "..."}},
//	    {"id": "store", "type": "save_db", "depends_on": ["fetch"]}
//	  ]
//	}
//
// Некорректная структура отклоняется здесь, на этапе построения,
// а не во время запуска.
func ParseDefinition(data []byte) (*domain.WorkflowDefinition, error) {
	var def domain.WorkflowDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow definition: %w", err)
	}

	if def.Name == "" {
		def.Name = defaultWorkflowName
	}

	if err := Validate(&def); err != nil {
		return nil, err
	}

	return &def, nil
}

// Validate выполняет полную валидацию определения workflow.
//
// Проверяет:
//   - наличие узлов
//   - непустые и уникальные ID
//   - непустой тип каждого узла
//   - отсутствие self-dependency
//   - что каждый depends_on ссылается на существующий узел
//
// Циклы здесь не ищутся: их обнаруживает движок, когда полный проход
// по оставшимся узлам не даёт прогресса.
func Validate(def *domain.WorkflowDefinition) error {
	if def == nil || len(def.Nodes) == 0 {
		return ErrEmptyNodes
	}

	ids := make(map[string]bool, len(def.Nodes))

	for i := range def.Nodes {
		node := &def.Nodes[i]

		if node.ID == "" {
			return NewDefinitionError("", "id",
				fmt.Sprintf("node %d has empty ID", i), ErrEmptyNodeID)
		}

		if ids[node.ID] {
			return NewDefinitionError(node.ID, "id",
				fmt.Sprintf("duplicate node ID: %s", node.ID), ErrDuplicateNodeID)
		}
		ids[node.ID] = true

		if node.Type == "" {
			return NewDefinitionError(node.ID, "type",
				"node has empty type", ErrEmptyNodeType)
		}

		for _, dep := range node.DependsOn {
			if dep == node.ID {
				return NewDefinitionError(node.ID, "depends_on",
					"node depends on itself", ErrSelfDependency)
			}
		}
	}

	// Проверяем зависимости вторым проходом: depends_on может ссылаться
	// на узел, объявленный позже.
	for i := range def.Nodes {
		node := &def.Nodes[i]
		for _, dep := range node.DependsOn {
			if !ids[dep] {
				return NewDefinitionError(node.ID, "depends_on",
					fmt.Sprintf("depends on unknown node: %s", dep), ErrMissingDependency)
			}
		}
	}

	return nil
}
