package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/orkestra-io/orkestra/internal/domain"
)

// Output управляет форматированием вывода CLI.
type Output struct {
	jsonMode bool
	w        io.Writer // stdout для данных
	errW     io.Writer // stderr для сообщений
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        os.Stdout,
		errW:     os.Stderr,
	}
}

// Print выводит данные: таблицу или JSON в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит данные в виде таблицы через tabwriter.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

// PrintWorkflowResult выводит итог запуска: по строке на узел плюс
// агрегированный статус.
func (o *Output) PrintWorkflowResult(result *domain.WorkflowResult) {
	if o.jsonMode {
		o.JSON(result)
		return
	}

	nodeIDs := make([]string, 0, len(result.Results))
	for nodeID := range result.Results {
		nodeIDs = append(nodeIDs, nodeID)
	}
	sort.Strings(nodeIDs)

	headers := []string{"NODE", "STATUS", "DURATION", "DETAIL"}
	rows := make([][]string, 0, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		outcome := result.Results[nodeID]
		rows = append(rows, []string{
			nodeID,
			string(outcome.Status),
			outcome.Duration().Round(time.Millisecond).String(),
			outcomeDetail(outcome),
		})
	}

	o.Table(headers, rows)
	fmt.Fprintf(o.w, "\nWorkflow %q finished: %s\n", result.WorkflowName, result.Status)
}

// outcomeDetail возвращает краткое описание итога узла.
func outcomeDetail(outcome domain.StepOutcome) string {
	switch outcome.Status {
	case domain.NodeStatusFailed:
		return truncate(outcome.Error, 80)
	case domain.NodeStatusSkipped:
		return truncate(outcome.Reason, 80)
	default:
		return ""
	}
}

// truncate обрезает строку до max символов.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
