package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/orkestra-io/orkestra/internal/scheduler"
)

// NewScheduleCmd создаёт команду периодического запуска workflow.
//
// Работает до SIGINT/SIGTERM. Метрики Prometheus доступны на
// /metrics по адресу --metrics-addr.
func NewScheduleCmd(runtimeFn func(cmd *cobra.Command) (*Runtime, error), outputFn func() *Output) *cobra.Command {
	var cronExpr string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "schedule FILE",
		Short: "Run a workflow periodically on a cron schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			wf, err := loadDefinition(args[0])
			if err != nil {
				return err
			}

			if err := scheduler.ValidateCronExpr(cronExpr); err != nil {
				return err
			}

			rt, err := runtimeFn(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			sched := scheduler.New(scheduler.Config{
				Runner: rt.Engine,
				Logger: rt.Logger,
			})
			if err := sched.Add(cronExpr, wf); err != nil {
				return err
			}

			// HTTP сервер только для /metrics
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: metricsAddr, Handler: mux}

			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					rt.Logger.Error("metrics server failed", "error", err)
				}
			}()

			sched.Start()
			out.Success(fmt.Sprintf("Scheduling %q with cron %q, metrics on %s", wf.Name, cronExpr, metricsAddr))

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			rt.Logger.Info("shutting down")
			server.Close()
			return sched.Stop(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (five fields, required)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Address for the Prometheus /metrics endpoint")
	cmd.MarkFlagRequired("cron")

	return cmd
}
