package cli

import (
	"github.com/spf13/cobra"
)

// NewTasksCmd создаёт команду списка зарегистрированных типов задач.
func NewTasksCmd(runtimeFn func(cmd *cobra.Command) (*Runtime, error), outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List registered task types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			rt, err := runtimeFn(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			descriptors := rt.Registry.List()

			headers := []string{"TYPE", "NAME", "CATEGORY", "DESCRIPTION"}
			rows := make([][]string, len(descriptors))
			for i, d := range descriptors {
				rows[i] = []string{d.Type, d.DisplayName, d.Category, d.Description}
			}

			out.Print(headers, rows, descriptors)
			return nil
		},
	}
}
