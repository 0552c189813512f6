package llm

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoProvider indicates every configured engine was unavailable or failed.
// The caller decides whether to fall back to deterministic-only output.
var ErrNoProvider = eris.New("llm: no provider could serve the request")

// ProviderHealth is one engine's status snapshot.
type ProviderHealth struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	// Loaded only applies to the in-process fallback.
	Loaded bool `json:"loaded"`
}

// Router tries the primary engine first and falls back to the local engine
// only when the primary is unreachable or its call fails. The fallback's
// expensive initialization is never touched while the primary is healthy.
// A failed primary call does not demote the primary; the next request probes
// it again.
type Router struct {
	primary  Provider
	fallback Provider

	mu       sync.Mutex
	lastUsed string
}

// NewRouter creates a router. Either provider may be nil.
func NewRouter(primary, fallback Provider) *Router {
	return &Router{primary: primary, fallback: fallback}
}

// Route runs the prompt on the first engine that can serve it and returns
// the raw output together with the engine name.
func (r *Router) Route(ctx context.Context, prompt string) (string, string, error) {
	var lastErr error

	if r.primary != nil && r.primary.Available(ctx) {
		text, err := r.primary.Extract(ctx, prompt)
		if err == nil {
			r.record(r.primary.Name())
			return text, r.primary.Name(), nil
		}
		lastErr = err
		zap.L().Warn("llm: primary engine failed, trying fallback",
			zap.String("engine", r.primary.Name()),
			zap.Error(err),
		)
	}

	if r.fallback != nil && r.fallback.Available(ctx) {
		text, err := r.fallback.Extract(ctx, prompt)
		if err == nil {
			r.record(r.fallback.Name())
			return text, r.fallback.Name(), nil
		}
		lastErr = err
		zap.L().Warn("llm: fallback engine failed",
			zap.String("engine", r.fallback.Name()),
			zap.Error(err),
		)
	}

	if lastErr != nil {
		return "", "", eris.Wrapf(ErrNoProvider, "last error: %v", lastErr)
	}
	return "", "", eris.Wrap(ErrNoProvider, "no engine available")
}

func (r *Router) record(name string) {
	r.mu.Lock()
	r.lastUsed = name
	r.mu.Unlock()
}

// LastUsed returns the engine that served the most recent successful route,
// or empty if none has.
func (r *Router) LastUsed() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastUsed
}

// Health reports each configured engine's availability without triggering
// any initialization.
func (r *Router) Health(ctx context.Context) []ProviderHealth {
	var out []ProviderHealth
	for _, p := range []Provider{r.primary, r.fallback} {
		if p == nil {
			continue
		}
		h := ProviderHealth{
			Name:      p.Name(),
			Available: p.Available(ctx),
		}
		if local, ok := p.(*Local); ok {
			h.Loaded = local.Loaded()
		}
		out = append(out, h)
	}
	return out
}
