// Orkestra — движок оркестрации workflow с зависимостями между узлами.
//
// Использование:
//
//	orkestra [--db] [--amqp] [--json] <command> [flags]
//
// Команды:
//
//	run       Выполнить workflow из JSON файла
//	validate  Проверить определение workflow
//	tasks     Показать зарегистрированные типы задач
//	history   Показать историю запусков
//	schedule  Запускать workflow по cron-расписанию
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/orkestra-io/orkestra/internal/cli"
	"github.com/orkestra-io/orkestra/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var useDB bool
	var useAMQP bool
	var jsonOutput bool

	logger := telemetry.SetupLogger()
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:           "orkestra",
		Short:         "Orkestra — workflow orchestration engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&useDB, "db", false, "Persist runs to PostgreSQL (DSN from DB_URL)")
	rootCmd.PersistentFlags().BoolVar(&useAMQP, "amqp", false, "Publish events to RabbitMQ (URL from AMQP_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	runtimeFn := func(cmd *cobra.Command) (*cli.Runtime, error) {
		return cli.NewRuntime(cmd.Context(), cli.RuntimeOptions{
			UseDB:   useDB,
			UseAMQP: useAMQP,
			Logger:  logger,
		})
	}
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRunCmd(runtimeFn, outputFn),
		cli.NewValidateCmd(outputFn),
		cli.NewTasksCmd(runtimeFn, outputFn),
		cli.NewHistoryCmd(runtimeFn, outputFn),
		cli.NewScheduleCmd(runtimeFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
