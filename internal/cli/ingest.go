package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/saju/internal/adapters/repository"
	"github.com/okian/saju/internal/adapters/source"
	service "github.com/okian/saju/internal/app"
	"github.com/okian/saju/internal/config"
	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/pkg/logger"
)

func ingestCmd() *cobra.Command {
	var (
		driver  string
		dsn     string
		workers int
		asJSON  bool
	)

	c := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Compute and store charts for the subjects in JSON or YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("driver") {
				cfg.StoreDriver = driver
			}
			if flags.Changed("dsn") {
				cfg.StoreDSN = dsn
			}
			if flags.Changed("workers") {
				cfg.WorkerCount = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			subjects, err := source.LoadAll(ctx, args...)
			if err != nil {
				return err
			}

			sum, err := ingest(ctx, cfg, subjects)
			if err != nil {
				return err
			}
			if err := printSummary(cmd, sum, asJSON); err != nil {
				return err
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrIngestFailures, sum.Failed, sum.Total)
			}
			return nil
		},
	}

	c.Flags().StringVar(&driver, "driver", "", "store driver: memory, sqlite, postgres, mysql (default: store_driver from config)")
	c.Flags().StringVar(&dsn, "dsn", "", "data source name for the SQL drivers (default: store_dsn from config)")
	c.Flags().IntVar(&workers, "workers", 0, "ingestion workers (default: number of CPUs)")
	c.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return c
}

// ingest runs subjects through the pipeline against the configured store.
func ingest(ctx context.Context, cfg *config.Config, subjects []model.Subject) (service.Summary, error) {
	log := logger.Get()
	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN, repository.WithLogger(log.Named("store")))
	if err != nil {
		return service.Summary{}, err
	}
	defer func() { _ = store.Close() }()

	svc := service.New(
		service.WithStore(store),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
	)
	if err := svc.Start(ctx); err != nil {
		return service.Summary{}, err
	}
	defer svc.Stop()

	runCtx, cancel := context.WithTimeout(ctx, cfg.IngestTimeout())
	defer cancel()
	return svc.Ingest(runCtx, subjects)
}

func printSummary(cmd *cobra.Command, sum service.Summary, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	fmt.Fprintf(w, "run %s: %d total, %d stored, %d failed, %d skipped\n",
		sum.RunID, sum.Total, sum.Stored, sum.Failed, sum.Skipped)
	for _, r := range sum.Results {
		fmt.Fprintf(w, "  ok    %s  %s  (%s)\n", r.Name, r.Saju, r.DominantElement)
	}
	for _, f := range sum.Errors {
		fmt.Fprintf(w, "  fail  %s  %s\n", f.Name, f.Error)
	}
	return nil
}
