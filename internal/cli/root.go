// Package cli implements the sajuctl command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/saju/pkg/logger"
)

// Execute runs sajuctl and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		jsonLogs bool
	)

	cmd := &cobra.Command{
		Use:          "sajuctl",
		Short:        "Compute Four Pillars charts and ingest subjects",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithJSON(jsonLogs)); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "write logs as JSON")

	cmd.AddCommand(calcCmd(), ingestCmd(), loadgenCmd())
	return cmd
}
