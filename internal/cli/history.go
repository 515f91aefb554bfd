package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

// NewHistoryCmd создаёт команду истории запусков.
// Требует подключения к базе (--db).
func NewHistoryCmd(runtimeFn func(cmd *cobra.Command) (*Runtime, error), outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past workflow runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			rt, err := runtimeFn(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.Repo == nil {
				return errors.New("history requires a database connection, pass --db")
			}

			records, err := rt.Repo.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "WORKFLOW", "STATUS", "STARTED", "FINISHED"}
			rows := make([][]string, len(records))
			for i, rec := range records {
				finished := ""
				if rec.FinishedAt != nil {
					finished = rec.FinishedAt.Format(time.RFC3339)
				}
				rows[i] = []string{
					rec.ID.String(),
					rec.WorkflowName,
					string(rec.Status),
					rec.StartedAt.Format(time.RFC3339),
					finished,
				}
			}

			out.Print(headers, rows, records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}
