package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-intel/internal/deterministic"
	"github.com/sells-group/company-intel/internal/model"
)

var processRefresh bool

var processCmd = &cobra.Command{
	Use:   "process <domain>",
	Short: "Extract a company profile from one snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		record, cached, err := processDomain(ctx, env, args[0], processRefresh)
		if err != nil {
			return err
		}
		zap.L().Info("process: done",
			zap.String("domain", record.Domain),
			zap.Bool("from_cache", cached),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(record), "encode record")
	},
}

func init() {
	processCmd.Flags().BoolVar(&processRefresh, "refresh", false, "ignore and replace any cached record")
	rootCmd.AddCommand(processCmd)
}

// processDomain serves one domain: from cache when allowed, otherwise through
// the full pipeline. Results that failed JSON validation on every attempt are
// returned but never cached, so the next request retries the semantic layer.
func processDomain(ctx context.Context, env *pipelineEnv, rawDomain string, refresh bool) (*model.CacheRecord, bool, error) {
	domain := deterministic.NormalizeDomain(rawDomain)

	if !refresh {
		record, err := env.Cache.Load(ctx, domain)
		if err != nil {
			return nil, false, err
		}
		if record != nil {
			zap.L().Debug("process: cache hit", zap.String("domain", domain))
			return record, true, nil
		}
	}

	result, err := env.Extractor.Process(ctx, domain)
	if err != nil {
		return nil, false, err
	}

	record := &model.CacheRecord{
		Domain:  result.Profile.Domain,
		Profile: result.Profile,
		Graph:   result.Graph,
		Metadata: model.CacheMetadata{
			EngineUsed:    result.EngineUsed,
			ModelName:     env.Extractor.ModelName(result.EngineUsed),
			Timestamp:     time.Now().UTC(),
			Offline:       true,
			SchemaVersion: model.SchemaVersion,
			Confidence:    result.Confidence,
			Status:        result.Status,
		},
	}

	if result.LLMFailed {
		zap.L().Warn("process: semantic layer failed validation, result not cached",
			zap.String("domain", domain),
		)
		return record, false, nil
	}

	if err := env.Cache.Save(ctx, *record); err != nil {
		return nil, false, err
	}
	return record, false, nil
}
