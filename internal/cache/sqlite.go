package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/company-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. This is the default
// backend; a single file next to the snapshot data.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite database at path and
// configures WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "cache: create db dir")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL UNIQUE,
	profile    TEXT NOT NULL,
	graph      TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_profiles_domain ON profiles(domain);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "cache: migrate sqlite")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, record model.CacheRecord) error {
	profileJSON, graphJSON, metaJSON, err := marshalRecord(record)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "cache: begin tx")
	}
	defer tx.Rollback()

	// One logical record per domain: drop the old row in the same tx.
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE domain = ?`, record.Domain); err != nil {
		return eris.Wrapf(err, "cache: delete old record %s", record.Domain)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, domain, profile, graph, metadata, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), record.Domain, profileJSON, graphJSON, metaJSON, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "cache: insert record %s", record.Domain)
	}
	return eris.Wrap(tx.Commit(), "cache: commit save")
}

func (s *SQLiteStore) Load(ctx context.Context, domain string) (*model.CacheRecord, error) {
	var profileJSON, graphJSON, metaJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile, graph, metadata FROM profiles WHERE domain = ?`, domain,
	).Scan(&profileJSON, &graphJSON, &metaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "cache: load record %s", domain)
	}
	return unmarshalRecord(domain, profileJSON, graphJSON, metaJSON)
}

func (s *SQLiteStore) Invalidate(ctx context.Context, domain string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE domain = ?`, domain)
	return eris.Wrapf(err, "cache: invalidate %s", domain)
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT domain FROM profiles ORDER BY domain`)
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

func marshalRecord(record model.CacheRecord) (profile, graph, meta string, err error) {
	p, err := json.Marshal(record.Profile)
	if err != nil {
		return "", "", "", eris.Wrap(err, "cache: marshal profile")
	}
	g, err := json.Marshal(record.Graph)
	if err != nil {
		return "", "", "", eris.Wrap(err, "cache: marshal graph")
	}
	m, err := json.Marshal(record.Metadata)
	if err != nil {
		return "", "", "", eris.Wrap(err, "cache: marshal metadata")
	}
	return string(p), string(g), string(m), nil
}

func unmarshalRecord(domain, profileJSON, graphJSON, metaJSON string) (*model.CacheRecord, error) {
	record := model.CacheRecord{Domain: domain}
	if err := json.Unmarshal([]byte(profileJSON), &record.Profile); err != nil {
		return nil, eris.Wrapf(err, "cache: unmarshal profile %s", domain)
	}
	if err := json.Unmarshal([]byte(graphJSON), &record.Graph); err != nil {
		return nil, eris.Wrapf(err, "cache: unmarshal graph %s", domain)
	}
	if err := json.Unmarshal([]byte(metaJSON), &record.Metadata); err != nil {
		return nil, eris.Wrapf(err, "cache: unmarshal metadata %s", domain)
	}
	// A schema change invalidates old records wholesale.
	if record.Metadata.SchemaVersion != model.SchemaVersion {
		return nil, nil
	}
	return &record, nil
}
