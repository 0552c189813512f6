package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, dir, domain string, pages map[string]string) {
	t.Helper()
	root := filepath.Join(dir, domain)
	require.NoError(t, os.MkdirAll(root, 0o755))
	for name, content := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
}

func TestLoaderLoadSortsPages(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "acme.com", map[string]string{
		"index.html":   "<p>home</p>",
		"about.html":   "<p>about</p>",
		"contact.html": "<p>contact</p>",
	})

	pages, err := NewLoader(dir).Load("acme.com")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "about", pages[0].Name)
	assert.Equal(t, "contact", pages[1].Name)
	assert.Equal(t, "index", pages[2].Name)
	assert.Equal(t, "<p>about</p>", pages[0].Content)
}

func TestLoaderLoadMissingDomain(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load("nowhere.example")
	assert.True(t, eris.Is(err, ErrNoSnapshot))
}

func TestLoaderIgnoresNonHTML(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "acme.com", map[string]string{
		"index.html": "<p>home</p>",
		"notes.txt":  "ignored",
	})

	pages, err := NewLoader(dir).Load("acme.com")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "index", pages[0].Name)
}

func TestLoaderList(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "zeta.io", map[string]string{"index.html": "x"})
	writeSnapshot(t, dir, "acme.com", map[string]string{"index.html": "x"})

	domains, err := NewLoader(dir).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme.com", "zeta.io"}, domains)
}

func TestLoaderExists(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "acme.com", map[string]string{"index.html": "x"})

	l := NewLoader(dir)
	assert.True(t, l.Exists("acme.com"))
	assert.False(t, l.Exists("other.com"))
}
