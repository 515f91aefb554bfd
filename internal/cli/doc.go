// Package cli — команды инструмента командной строки orkestra.
//
// Команды:
//
//	run       Выполнить workflow из JSON файла
//	validate  Проверить определение workflow без выполнения
//	tasks     Показать зарегистрированные типы задач
//	history   Показать историю запусков из базы
//	schedule  Запускать workflow периодически по cron-расписанию
//
// Флаги --db и --amqp подключают PostgreSQL и RabbitMQ; без них
// движок работает в памяти, без персистентности и событий.
package cli
