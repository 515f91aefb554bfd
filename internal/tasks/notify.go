package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/orkestra-io/orkestra/internal/mq"
	"github.com/orkestra-io/orkestra/internal/task"
)

// TaskTypeNotify — тип задачи уведомления.
const TaskTypeNotify = "notify"

// validChannels — допустимые каналы уведомлений.
var validChannels = []string{"email", "slack", "console", "webhook"}

// maxNotifyMessageLen — предел длины сообщения.
const maxNotifyMessageLen = 500

// NotifyTask — задача отправки уведомления.
//
// Публикует уведомление в очередь notifications через RabbitMQ.
// Без брокера уведомление уходит только в лог — workflow при этом
// не падает.
//
// Параметры:
//
//	{
//	    "channel": "slack",
//	    "message": "pipeline finished"
//	}
//
// Результат:
//
//	{
//	    "sent": true,
//	    "channel": "slack",
//	    "message": "pipeline finished",
//	    "timestamp": "2026-08-31T12:00:00Z"
//	}
type NotifyTask struct {
	task.Base

	publisher *mq.Publisher
	logger    *slog.Logger
}

// NewNotifyTask создаёт новую NotifyTask.
func NewNotifyTask(publisher *mq.Publisher, logger *slog.Logger) *NotifyTask {
	return &NotifyTask{publisher: publisher, logger: logger}
}

// NotifyDescriptor возвращает метаданные типа notify.
func NotifyDescriptor() task.Descriptor {
	return task.Descriptor{
		Type:        TaskTypeNotify,
		DisplayName: "Send Notification",
		Description: "Отправляет уведомление в указанный канал.",
		Category:    "Уведомления",
		Icon:        "bell",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"channel": map[string]any{
					"type": "string",
					"enum": validChannels,
				},
				"message": map[string]any{
					"type":      "string",
					"minLength": 1,
					"maxLength": maxNotifyMessageLen,
				},
			},
			"required": []string{"channel", "message"},
		},
	}
}

// ValidateParams проверяет channel и message.
func (t *NotifyTask) ValidateParams(params map[string]any) error {
	channel := paramString(params, "channel")
	if channel == "" {
		return task.NewValidationError("channel", "is required")
	}
	if !slices.Contains(validChannels, channel) {
		return task.NewValidationError("channel", fmt.Sprintf("must be one of %v", validChannels))
	}

	message := paramString(params, "message")
	if message == "" {
		return task.NewValidationError("message", "is required")
	}
	if len(message) > maxNotifyMessageLen {
		return task.NewValidationError("message", fmt.Sprintf("must not exceed %d characters", maxNotifyMessageLen))
	}
	return nil
}

// Execute отправляет уведомление.
func (t *NotifyTask) Execute(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	channel := paramString(params, "channel")
	message := paramString(params, "message")

	if t.publisher != nil {
		err := t.publisher.PublishNotification(ctx, mq.NotificationPayload{
			Channel: channel,
			Text:    message,
		})
		if err != nil {
			return nil, fmt.Errorf("publish notification: %w", err)
		}
	} else {
		t.logger.Info("notification (no broker configured)",
			"channel", channel,
			"message", message,
		)
	}

	return map[string]any{
		"sent":      true,
		"channel":   channel,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// After логирует успешную отправку.
func (t *NotifyTask) After(result any) error {
	if m, ok := result.(map[string]any); ok {
		t.logger.Info("notification sent", "channel", m["channel"])
	}
	return nil
}

// OnError логирует ошибку отправки.
func (t *NotifyTask) OnError(err error) {
	t.logger.Error("notification failed", "error", err)
}
