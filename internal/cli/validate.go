package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewValidateCmd создаёт команду проверки определения workflow.
//
// Проверяет структуру файла без выполнения: JSON, уникальность ID,
// непустые типы, существование зависимостей. Циклы обнаруживаются
// только при выполнении.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a workflow definition without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			wf, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "TYPE", "DEPENDS_ON"}
			rows := make([][]string, len(wf.Nodes))
			for i, node := range wf.Nodes {
				rows[i] = []string{node.ID, node.Type, strings.Join(node.DependsOn, ", ")}
			}

			out.Print(headers, rows, wf)
			out.Success(fmt.Sprintf("Workflow %q is valid: %d nodes", wf.Name, len(wf.Nodes)))
			return nil
		},
	}
}
