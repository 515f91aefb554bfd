package decorator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/orkestra-io/orkestra/internal/task"
)

// maxLoggedResultLen — предел длины строковых значений результата в логе.
const maxLoggedResultLen = 200

// maskedValue — замена значений чувствительных параметров в логе.
const maskedValue = "***HIDDEN***"

// sensitiveKeys — подстроки имён параметров, значения которых маскируются.
var sensitiveKeys = []string{"password", "token", "api_key", "secret", "auth"}

// Logging — декоратор логирования входа и выхода.
//
// Пишет в лог параметры (секреты маскируются) и результат (длинные
// строки усекаются) либо ошибку. Результат и ошибка проходят насквозь
// без изменений.
type Logging struct {
	inner    Runner
	taskType string
	logger   *slog.Logger
}

// NewLogging создаёт декоратор логирования. Сигнатура соответствует Constructor.
func NewLogging(inner Runner, taskType string, logger *slog.Logger) Runner {
	return &Logging{inner: inner, taskType: taskType, logger: logger}
}

// Run логирует вход, делегирует внутреннему вызову и логирует исход.
func (d *Logging) Run(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	d.logger.Info("task starting",
		"type", d.taskType,
		"params", sanitizeParams(params),
	)

	result, err := d.inner.Run(ctx, view, params)
	if err != nil {
		d.logger.Error("task error",
			"type", d.taskType,
			"error", err,
		)
		return nil, err
	}

	d.logger.Info("task result",
		"type", d.taskType,
		"result", truncateResult(result),
	)

	return result, nil
}

// sanitizeParams маскирует значения чувствительных параметров.
func sanitizeParams(params map[string]any) map[string]any {
	sanitized := make(map[string]any, len(params))
	for key, value := range params {
		lower := strings.ToLower(key)
		masked := false
		for _, sensitive := range sensitiveKeys {
			if strings.Contains(lower, sensitive) {
				sanitized[key] = maskedValue
				masked = true
				break
			}
		}
		if !masked {
			sanitized[key] = value
		}
	}
	return sanitized
}

// truncateResult усекает длинные строковые значения результата.
func truncateResult(result any) any {
	switch v := result.(type) {
	case string:
		return truncateString(v)
	case map[string]any:
		truncated := make(map[string]any, len(v))
		for key, value := range v {
			if s, ok := value.(string); ok {
				truncated[key] = truncateString(s)
			} else {
				truncated[key] = value
			}
		}
		return truncated
	default:
		return result
	}
}

// truncateString обрезает строку до maxLoggedResultLen.
func truncateString(s string) string {
	if len(s) <= maxLoggedResultLen {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:maxLoggedResultLen], len(s))
}
