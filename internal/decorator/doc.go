// Package decorator оборачивает стратегии сквозным поведением.
//
// Декоратор реализует тот же контракт запуска, что и стратегия
// (интерфейс Runner), поэтому декораторы свободно вкладываются друг
// в друга. Состав цепочки задаётся конфигурацией по типу задачи:
// упорядоченный список конструкторов, последний элемент списка —
// внешняя обёртка, которую вызывает Worker.
//
// Встроенные декораторы:
//   - Timing  — измеряет wall-clock продолжительность, пишет событие
//     в лог и гистограмму Prometheus
//   - Logging — логирует параметры (с маскированием секретов)
//     и результат или ошибку
//
// Жёсткое правило: декоратор обязан вернуть ошибку внутреннего вызова
// без изменений. Декоратор, гасящий ошибку, ломает классификацию
// SUCCESS/FAILED на границе Worker.
package decorator
