package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/company-intel/internal/model"
)

var batchRefresh bool

var batchCmd = &cobra.Command{
	Use:   "batch [domains...]",
	Short: "Extract profiles for many snapshots concurrently",
	Long:  "Processes the given domains, or every domain with a snapshot when none are given. Individual failures are retried once and never abort the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		domains := args
		if len(domains) == 0 {
			domains, err = env.Loader.List()
			if err != nil {
				return err
			}
		}
		return runBatch(ctx, env, domains, cfg.Batch.MaxConcurrentDomains, batchRefresh)
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchRefresh, "refresh", false, "ignore and replace cached records")
	rootCmd.AddCommand(batchCmd)
}

// runBatch processes domains concurrently. Each domain gets one retry; a
// domain that fails twice is counted and skipped, never aborting the rest.
func runBatch(ctx context.Context, env *pipelineEnv, domains []string, concurrency int, refresh bool) error {
	if len(domains) == 0 {
		zap.L().Info("batch: no snapshots found")
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("batch: starting",
		zap.Int("domains", len(domains)),
		zap.Int("concurrency", concurrency),
	)

	var succeeded, failed, fromCache atomic.Int64
	lowConfidence := make(chan string, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, domain := range domains {
		g.Go(func() error {
			log := zap.L().With(zap.String("domain", domain))

			record, cached, err := processDomain(gctx, env, domain, refresh)
			if err != nil {
				log.Warn("batch: domain failed, retrying once", zap.Error(err))
				record, cached, err = processDomain(gctx, env, domain, refresh)
			}
			if err != nil {
				failed.Add(1)
				log.Error("batch: domain failed", zap.Error(err))
				return nil // individual failures never abort the batch
			}

			succeeded.Add(1)
			if cached {
				fromCache.Add(1)
			}
			if record.Metadata.Confidence == model.ConfidenceLow {
				lowConfidence <- domain
			}
			log.Info("batch: domain done",
				zap.String("confidence", string(record.Metadata.Confidence)),
				zap.Bool("from_cache", cached),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}
	close(lowConfidence)

	var flagged []string
	for d := range lowConfidence {
		flagged = append(flagged, d)
	}

	zap.L().Info("batch: complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("from_cache", fromCache.Load()),
		zap.Strings("low_confidence", flagged),
	)
	return nil
}
