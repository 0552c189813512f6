// Package cache persists finished extraction results, one logical record per
// domain. A cache hit skips the whole pipeline, so records carry enough
// metadata (engine, model, schema version) to decide whether they are still
// trustworthy.
package cache

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-intel/internal/config"
	"github.com/sells-group/company-intel/internal/model"
)

// Store is the persistence interface for extraction results.
type Store interface {
	// Load returns the cached record for a domain, or (nil, nil) on a miss.
	// Records written under a different schema version are treated as
	// misses.
	Load(ctx context.Context, domain string) (*model.CacheRecord, error)
	// Save stores a record, replacing any previous record for the domain.
	Save(ctx context.Context, record model.CacheRecord) error
	// Invalidate removes a domain's record. Removing an absent record is
	// not an error.
	Invalidate(ctx context.Context, domain string) error
	// List returns all cached domains, sorted.
	List(ctx context.Context) ([]string, error)

	Migrate(ctx context.Context) error
	Close() error
}

// New builds the store named by the config driver.
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
