package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/saju/internal/loadgen"
)

func loadgenCmd() *cobra.Command {
	var (
		cfg    loadgen.Config
		asJSON bool
	)

	c := &cobra.Command{
		Use:   "loadgen",
		Short: "Send generated birth data to a running server and verify every chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, runErr := loadgen.Run(cmd.Context(), cfg)

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(stats); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(w, "sent %d in %s: %d ok, %d duplicate, %d failed, %d violations\n",
					stats.Sent, stats.Duration.Round(time.Millisecond), stats.Succeeded, stats.Duplicate, stats.Failed, len(stats.Violations))
				for _, v := range stats.Violations {
					fmt.Fprintln(w, "  "+v)
				}
			}
			return runErr
		},
	}

	f := c.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the saju server")
	f.IntVar(&cfg.Count, "count", 1000, "number of requests")
	f.IntVar(&cfg.Workers, "workers", 16, "concurrent requests")
	f.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "seed for the generated birth data")
	f.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	f.IntVar(&cfg.MinYear, "min-year", 1900, "first birth year")
	f.IntVar(&cfg.MaxYear, "max-year", 2100, "last birth year")
	f.BoolVar(&cfg.Subjects, "subjects", false, "post subjects to /subjects instead of computing charts")
	return c
}
