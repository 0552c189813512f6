// Package extract orchestrates the two-tier pipeline: the deterministic
// layer runs first and always, the semantic layer refines its output, and a
// precedence merge produces the mandatory company profile.
package extract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/company-intel/internal/deterministic"
	"github.com/sells-group/company-intel/internal/graph"
	"github.com/sells-group/company-intel/internal/model"
	"github.com/sells-group/company-intel/internal/repair"
	"github.com/sells-group/company-intel/internal/snapshot"
)

// router is the part of llm.Router the extractor depends on; narrowed so
// tests can swap in a stub.
type router interface {
	Route(ctx context.Context, prompt string) (string, string, error)
}

// Options tune the orchestrator.
type Options struct {
	// MaxPromptChars caps the page text included in the prompt.
	MaxPromptChars int
	// LLMRetries is how many times an invalid-JSON answer is retried with a
	// stricter prompt before giving up on the semantic layer.
	LLMRetries int
	// ModelNames maps engine name to the model it runs, for cache metadata.
	ModelNames map[string]string
}

// Extractor runs the full pipeline for one domain at a time.
type Extractor struct {
	loader *snapshot.Loader
	router router
	opts   Options
}

// New creates an Extractor.
func New(loader *snapshot.Loader, r router, opts Options) *Extractor {
	if opts.MaxPromptChars <= 0 {
		opts.MaxPromptChars = 2500
	}
	if opts.LLMRetries < 0 {
		opts.LLMRetries = 0
	}
	return &Extractor{loader: loader, router: r, opts: opts}
}

// ModelName resolves the model behind an engine for metadata stamping.
func (e *Extractor) ModelName(engine string) string {
	if name, ok := e.opts.ModelNames[engine]; ok {
		return name
	}
	return model.NotFound
}

// Process extracts a complete profile and graph for one domain. It fails
// only when the snapshot is missing; every downstream failure degrades into
// a sentinel-filled but valid result.
func (e *Extractor) Process(ctx context.Context, domain string) (*model.ProcessResult, error) {
	start := time.Now()

	pages, err := e.loader.Load(domain)
	if err != nil {
		return nil, err
	}

	detStart := time.Now()
	det := deterministic.Extract(pages, domain)
	detMillis := time.Since(detStart).Milliseconds()

	prompt := BuildPrompt(det, e.opts.MaxPromptChars)

	llmStart := time.Now()
	fields, engine, repaired, llmFailed := e.semantic(ctx, prompt)
	llmMillis := time.Since(llmStart).Milliseconds()

	profile := Merge(det, fields)
	g := graph.Build(profile)

	status := model.ExtractionComplete
	if repaired || fields == nil {
		status = model.ExtractionRepaired
	}

	result := &model.ProcessResult{
		Profile:             profile,
		Graph:               g,
		EngineUsed:          engine,
		Confidence:          confidence(engine, llmFailed, profile),
		Status:              status,
		LLMFailed:           llmFailed,
		DeterministicMillis: detMillis,
		LLMMillis:           llmMillis,
		TotalMillis:         time.Since(start).Milliseconds(),
	}

	zap.L().Info("extract: domain processed",
		zap.String("domain", det.Domain),
		zap.String("engine", engine),
		zap.String("confidence", string(result.Confidence)),
		zap.String("status", string(result.Status)),
		zap.Int64("total_ms", result.TotalMillis),
	)
	return result, nil
}

// semantic routes the prompt and validates the answer. An invalid-JSON
// answer is retried with a stricter prompt; if every attempt fails the
// semantic layer is abandoned for this domain and the caller merges with nil
// fields. llmFailed distinguishes "model answered garbage" from "no engine
// reachable".
func (e *Extractor) semantic(ctx context.Context, prompt string) (fields map[string]any, engine string, repaired, llmFailed bool) {
	for attempt := 0; attempt <= e.opts.LLMRetries; attempt++ {
		p := prompt
		if attempt > 0 {
			p += strictSuffix
		}

		text, eng, err := e.router.Route(ctx, p)
		if err != nil {
			zap.L().Warn("extract: no llm engine available, deterministic-only result", zap.Error(err))
			return nil, "", false, false
		}
		engine = eng

		obj, wasRepaired, perr := repair.Parse(text)
		if perr != nil {
			zap.L().Warn("extract: invalid json from engine",
				zap.String("engine", eng),
				zap.Int("attempt", attempt+1),
				zap.Error(perr),
			)
			continue
		}
		return repair.Unwrap(obj), eng, wasRepaired || attempt > 0, false
	}
	return nil, engine, true, true
}

// confidence grades a result: low when the semantic layer contributed
// nothing, medium when it ran but no people were found, high otherwise.
func confidence(engine string, llmFailed bool, profile model.CompanyProfile) model.Confidence {
	if engine == "" || llmFailed {
		return model.ConfidenceLow
	}
	if len(profile.PeopleInformation) == 0 {
		return model.ConfidenceMedium
	}
	return model.ConfidenceHigh
}
