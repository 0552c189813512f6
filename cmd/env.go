package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-intel/internal/cache"
	"github.com/sells-group/company-intel/internal/extract"
	"github.com/sells-group/company-intel/internal/llm"
	"github.com/sells-group/company-intel/internal/snapshot"
)

// pipelineEnv holds everything the process/batch/serve commands share: the
// snapshot loader, the profile cache, the engine router, and the extractor.
type pipelineEnv struct {
	Loader    *snapshot.Loader
	Cache     cache.Store
	Router    *llm.Router
	Extractor *extract.Extractor

	local *llm.Local
}

// Close releases the cache connection and any loaded model weights.
func (pe *pipelineEnv) Close() {
	if pe.local != nil {
		_ = pe.local.Close()
	}
	if pe.Cache != nil {
		_ = pe.Cache.Close()
	}
}

// initEnv wires the pipeline from config. Callers should defer env.Close().
func initEnv(ctx context.Context) (*pipelineEnv, error) {
	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate cache")
	}

	ollama := llm.NewOllama(cfg.Ollama.BaseURL,
		llm.WithOllamaModel(cfg.Ollama.Model),
		llm.WithOllamaTimeout(time.Duration(cfg.Ollama.TimeoutSecs)*time.Second),
		llm.WithOllamaProbeTimeout(time.Duration(cfg.Ollama.ProbeTimeoutSecs)*time.Second),
		llm.WithOllamaMaxTokens(cfg.Ollama.MaxTokens),
		llm.WithOllamaRateLimit(cfg.Ollama.RequestsPerSec),
	)
	local := llm.NewLocal(
		cfg.Local.ModelPath,
		cfg.Local.TokenizerPath,
		cfg.Local.LibraryPath,
		cfg.Local.ModelName,
		cfg.Local.MaxTokens,
	)
	router := llm.NewRouter(ollama, local)

	loader := snapshot.NewLoader(cfg.Snapshots.DataDir)
	extractor := extract.New(loader, router, extract.Options{
		MaxPromptChars: cfg.Extract.MaxPromptChars,
		LLMRetries:     cfg.Extract.LLMRetries,
		ModelNames: map[string]string{
			ollama.Name(): ollama.Model(),
			local.Name():  local.Model(),
		},
	})

	return &pipelineEnv{
		Loader:    loader,
		Cache:     store,
		Router:    router,
		Extractor: extractor,
		local:     local,
	}, nil
}
