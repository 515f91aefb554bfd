package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orkestra-io/orkestra/internal/domain"
	"github.com/orkestra-io/orkestra/internal/engine"
)

// NewRunCmd создаёт команду выполнения workflow.
func NewRunCmd(runtimeFn func(cmd *cobra.Command) (*Runtime, error), outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Execute a workflow from a JSON definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			wf, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			rt, err := runtimeFn(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Engine.Run(cmd.Context(), wf)
			if err != nil {
				return fmt.Errorf("run workflow %q: %w", wf.Name, err)
			}

			out.PrintWorkflowResult(result)

			// Ненулевой код выхода, если запуск не был полностью успешным.
			if result.Status != domain.WorkflowStatusSuccess {
				cmd.SilenceUsage = true
				return fmt.Errorf("workflow finished with status %s", result.Status)
			}
			return nil
		},
	}
}

// loadDefinition читает и валидирует определение workflow из файла.
func loadDefinition(path string) (*domain.WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	wf, err := engine.ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("parse workflow %s: %w", path, err)
	}
	return wf, nil
}
