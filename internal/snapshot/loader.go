// Package snapshot loads and cleans offline HTML website snapshots.
//
// Snapshots are pre-fetched: one directory per domain under the data dir,
// containing the *.html pages captured for that site. Nothing in this package
// touches the network.
package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-intel/internal/model"
)

// ErrNoSnapshot indicates there are no pages on disk for the requested domain.
var ErrNoSnapshot = eris.New("snapshot: no pages for domain")

// Loader reads snapshot pages from the filesystem.
type Loader struct {
	dataDir string
}

// NewLoader creates a Loader rooted at dataDir.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// List returns all domains that have a snapshot directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dataDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: read data dir")
	}

	var domains []string
	for _, e := range entries {
		if e.IsDir() {
			domains = append(domains, e.Name())
		}
	}
	sort.Strings(domains)
	return domains, nil
}

// Exists reports whether a snapshot directory exists for the domain.
func (l *Loader) Exists(domain string) bool {
	info, err := os.Stat(filepath.Join(l.dataDir, domain))
	return err == nil && info.IsDir()
}

// Load reads all HTML pages for a domain. Returns ErrNoSnapshot when the
// directory is missing or holds no readable HTML files.
func (l *Loader) Load(domain string) ([]model.SnapshotPage, error) {
	dir := filepath.Join(l.dataDir, domain)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, eris.Wrapf(ErrNoSnapshot, "domain %s", domain)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: glob pages")
	}
	sort.Strings(paths)

	var pages []model.SnapshotPage
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			zap.L().Warn("snapshot: skipping unreadable page",
				zap.String("path", p),
				zap.Error(err),
			)
			continue
		}
		base := filepath.Base(p)
		pages = append(pages, model.SnapshotPage{
			Name:    strings.TrimSuffix(base, filepath.Ext(base)),
			Content: string(content),
		})
	}

	if len(pages) == 0 {
		return nil, eris.Wrapf(ErrNoSnapshot, "domain %s", domain)
	}
	return pages, nil
}
