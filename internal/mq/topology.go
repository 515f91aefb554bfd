package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Топология событий.
const (
	// ExchangeEvents — единственный обменник событий движка.
	ExchangeEvents Exchange = "orkestra.events"

	// QueueRunsCompleted — события о завершённых запусках.
	QueueRunsCompleted Queue = "runs.completed"

	// QueueNotifications — уведомления задачи notify.
	QueueNotifications Queue = "notifications"

	// RoutingKeyRunCompleted — ключ событий завершения запуска.
	RoutingKeyRunCompleted RoutingKey = "run.completed"

	// RoutingKeyNotification — ключ уведомлений.
	RoutingKeyNotification RoutingKey = "node.notification"
)

// SetupTopology объявляет обменник, очереди и привязки.
// Идемпотентна: повторный вызов на существующей топологии безопасен.
func SetupTopology(conn *Connection) error {
	return conn.WithChannel(func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			"direct",               // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
		}{
			{QueueRunsCompleted, RoutingKeyRunCompleted},
			{QueueNotifications, RoutingKeyNotification},
		}

		for _, b := range bindings {
			if _, err := ch.QueueDeclare(
				string(b.queue), // name
				true,            // durable
				false,           // delete when unused
				false,           // exclusive
				false,           // no-wait
				nil,             // arguments
			); err != nil {
				return fmt.Errorf("declare queue %s: %w", b.queue, err)
			}

			if err := ch.QueueBind(
				string(b.queue),      // queue name
				string(b.routingKey), // routing key
				string(ExchangeEvents),
				false, // no-wait
				nil,   // arguments
			); err != nil {
				return fmt.Errorf("bind queue %s: %w", b.queue, err)
			}
		}

		return nil
	})
}
