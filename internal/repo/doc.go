// Package repo — слой доступа к PostgreSQL.
//
// Хранит историю запусков workflow и результаты отдельных узлов.
// WorkflowRepo реализует интерфейс engine.Repository.
package repo
