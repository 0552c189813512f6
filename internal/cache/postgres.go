package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-intel/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool, for deployments where many
// workers share one cache.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects a pool and verifies it with a ping.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "cache: parse postgres config")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "cache: create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "cache: ping postgres")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id         UUID PRIMARY KEY,
	domain     TEXT NOT NULL UNIQUE,
	profile    JSONB NOT NULL,
	graph      JSONB NOT NULL,
	metadata   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_profiles_domain ON profiles(domain);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "cache: migrate postgres")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, record model.CacheRecord) error {
	profileJSON, graphJSON, metaJSON, err := marshalRecord(record)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "cache: begin tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE domain = $1`, record.Domain); err != nil {
		return eris.Wrapf(err, "cache: delete old record %s", record.Domain)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (id, domain, profile, graph, metadata, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), record.Domain, profileJSON, graphJSON, metaJSON, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "cache: insert record %s", record.Domain)
	}
	return eris.Wrap(tx.Commit(ctx), "cache: commit save")
}

func (s *PostgresStore) Load(ctx context.Context, domain string) (*model.CacheRecord, error) {
	var profileJSON, graphJSON, metaJSON string
	err := s.pool.QueryRow(ctx,
		`SELECT profile, graph, metadata FROM profiles WHERE domain = $1`, domain,
	).Scan(&profileJSON, &graphJSON, &metaJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "cache: load record %s", domain)
	}
	return unmarshalRecord(domain, profileJSON, graphJSON, metaJSON)
}

func (s *PostgresStore) Invalidate(ctx context.Context, domain string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE domain = $1`, domain)
	return eris.Wrapf(err, "cache: invalidate %s", domain)
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT domain FROM profiles ORDER BY domain`)
	if err != nil {
		return nil, eris.Wrap(err, "cache: list domains")
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, eris.Wrap(err, "cache: scan domain")
		}
		domains = append(domains, d)
	}
	return domains, eris.Wrap(rows.Err(), "cache: iterate domains")
}
