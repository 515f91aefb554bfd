package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/orkestra-io/orkestra/internal/task"
)

const (
	// TaskTypeHTTPGet — тип задачи HTTP GET.
	TaskTypeHTTPGet = "http_get"

	// Значения по умолчанию.
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBody    = 10 * 1024 * 1024 // 10 MB
)

// HTTPGetTask — задача HTTP GET запроса.
//
// Параметры:
//
//	{
//	    "url": "https://api.example.com/data",
//	    "headers": {"Authorization": "Bearer ..."},
//	    "timeout_sec": 30
//	}
//
// Результат:
//
//	{
//	    "status_code": 200,
//	    "body": {...},  // распарсенный JSON или строка
//	    "data": [...]   // содержимое поля "data", если ответ — JSON объект с ним
//	}
type HTTPGetTask struct {
	task.Base

	client *http.Client
	logger *slog.Logger
}

// NewHTTPGetTask создаёт новую HTTPGetTask.
func NewHTTPGetTask(logger *slog.Logger) *HTTPGetTask {
	return &HTTPGetTask{
		client: &http.Client{Timeout: defaultHTTPTimeout},
		logger: logger,
	}
}

// HTTPGetDescriptor возвращает метаданные типа http_get.
func HTTPGetDescriptor() task.Descriptor {
	return task.Descriptor{
		Type:        TaskTypeHTTPGet,
		DisplayName: "HTTP GET Request",
		Description: "Выполняет HTTP GET запрос к указанному URL.",
		Category:    "Входные",
		Icon:        "globe",
		ParamsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url":         map[string]any{"type": "string", "format": "uri"},
				"headers":     map[string]any{"type": "object"},
				"timeout_sec": map[string]any{"type": "number"},
			},
			"required": []string{"url"},
		},
	}
}

// ValidateParams проверяет наличие обязательного url.
func (t *HTTPGetTask) ValidateParams(params map[string]any) error {
	url := paramString(params, "url")
	if url == "" {
		return task.NewValidationError("url", "is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return task.NewValidationError("url", "must start with http:// or https://")
	}
	return nil
}

// Execute выполняет HTTP GET запрос.
func (t *HTTPGetTask) Execute(ctx context.Context, view task.ContextView, params map[string]any) (any, error) {
	url := paramString(params, "url")
	headers := paramMapString(params, "headers")

	client := t.client
	if timeoutSec := paramInt(params, "timeout_sec"); timeoutSec > 0 {
		client = &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get %s: %w", url, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("http get %s: unexpected status %d", url, resp.StatusCode)
	}

	result := map[string]any{
		"status_code": resp.StatusCode,
		"body":        parseBody(resp.Header.Get("Content-Type"), bodyBytes),
	}

	// API часто оборачивают полезную нагрузку в поле "data" —
	// выносим его на верхний уровень для downstream узлов.
	if obj, ok := result["body"].(map[string]any); ok {
		if data, ok := obj["data"]; ok {
			result["data"] = data
		}
	}

	return result, nil
}

// Before логирует начало запроса.
func (t *HTTPGetTask) Before(ctx context.Context, params map[string]any) error {
	t.logger.Info("fetching URL", "url", paramString(params, "url"))
	return nil
}

// parseBody парсит тело ответа: JSON — в структуру, иначе строка.
func parseBody(contentType string, bodyBytes []byte) any {
	if strings.Contains(contentType, "application/json") {
		var body any
		if err := json.Unmarshal(bodyBytes, &body); err == nil {
			return body
		}
	}
	return string(bodyBytes)
}
