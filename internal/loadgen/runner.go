package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/saju/internal/domain/model"
	"github.com/okian/saju/internal/domain/saju"
	"github.com/okian/saju/pkg/logger"
)

// maxReportedViolations bounds Stats.Violations.
const maxReportedViolations = 100

type sajuRequest struct {
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time,omitempty"`
}

// Run sends cfg.Count generated requests with cfg.Workers in flight and
// verifies each response. It returns ErrViolations when any chart breaks an
// invariant; transport and HTTP failures are only counted.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("loadgen")
	subjects := Generate(cfg.Count, cfg.Seed, cfg.MinYear, cfg.MaxYear)

	endpoint := "/saju"
	if cfg.Subjects {
		endpoint = "/subjects"
	}
	url := strings.TrimRight(cfg.BaseURL, "/") + endpoint
	log.Info(ctx, "starting load run",
		logger.String("url", url),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
	)

	var (
		mu    sync.Mutex
		stats Stats
	)
	record := func(outcome string, violations []string) {
		mu.Lock()
		defer mu.Unlock()
		stats.Sent++
		switch outcome {
		case "success":
			stats.Succeeded++
		case "duplicate":
			stats.Duplicate++
		default:
			stats.Failed++
		}
		for _, v := range violations {
			if len(stats.Violations) < maxReportedViolations {
				stats.Violations = append(stats.Violations, v)
			}
		}
	}

	client := newHTTPClient(cfg.Timeout)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, subj := range subjects {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if cfg.Subjects {
				record(submitSubject(gctx, client, url, subj), nil)
			} else {
				record(computeChart(gctx, client, url, subj))
			}
			return nil
		})
	}
	_ = g.Wait()
	stats.Duration = time.Since(start)

	log.Info(ctx, "load run finished",
		logger.Int("sent", stats.Sent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", len(stats.Violations)),
		logger.Duration("took", stats.Duration),
	)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if len(stats.Violations) > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, len(stats.Violations))
	}
	return stats, nil
}

func computeChart(ctx context.Context, client *httpClient, url string, subj model.Subject) (string, []string) {
	status, body, err := client.postJSON(ctx, url, sajuRequest{BirthDate: subj.BirthDate, BirthTime: subj.BirthTime})
	if err != nil || status != http.StatusOK {
		return "failed", nil
	}
	var r saju.Result
	if err := json.Unmarshal(body, &r); err != nil {
		return "failed", []string{subj.BirthDate + ": undecodable chart: " + err.Error()}
	}
	return "success", Verify(subj.BirthDate, subj.BirthTime, r)
}

func submitSubject(ctx context.Context, client *httpClient, url string, subj model.Subject) string {
	status, _, err := client.postJSON(ctx, url, subj)
	switch {
	case err != nil:
		return "failed"
	case status == http.StatusAccepted:
		return "success"
	case status == http.StatusOK:
		return "duplicate"
	default:
		return "failed"
	}
}
