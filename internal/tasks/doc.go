// Package tasks — встроенные типы задач.
//
// Каждая задача — стратегия для одного типа узла workflow:
//   - http_get       — HTTP GET запрос к внешнему API
//   - validate_csv   — проверка структуры CSV файла
//   - transform_sql  — преобразование данных контекста в SQL INSERT
//   - save_db        — выполнение SQL statements в PostgreSQL
//   - notify         — отправка уведомления через брокер
//
// RegisterBuiltins регистрирует все встроенные задачи в реестре.
package tasks
