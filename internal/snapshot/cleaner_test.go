package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/company-intel/internal/model"
)

func TestCleanStripsChrome(t *testing.T) {
	html := `<html><head><script>var x=1;</script><style>body{}</style></head>
	<body>
	<nav><a href="/">Home</a></nav>
	<div class="cookie-banner">We use cookies</div>
	<main><p>Acme builds industrial robots.</p></main>
	<footer>Copyright Acme</footer>
	</body></html>`

	text := Clean(html)
	assert.Contains(t, text, "Acme builds industrial robots.")
	assert.NotContains(t, text, "var x=1")
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "cookies")
	assert.NotContains(t, text, "Copyright")
}

func TestCleanRemovesChromeByID(t *testing.T) {
	html := `<body><div id="main-navigation">Links</div><p>Real content here.</p></body>`
	text := Clean(html)
	assert.NotContains(t, text, "Links")
	assert.Contains(t, text, "Real content here.")
}

func TestCleanAllAddsPageHeaders(t *testing.T) {
	pages := []model.SnapshotPage{
		{Name: "index", Content: "<p>Welcome to Acme.</p>"},
		{Name: "about", Content: "<p>Founded in 1999.</p>"},
	}
	text := CleanAll(pages)
	assert.Contains(t, text, "--- index ---")
	assert.Contains(t, text, "--- about ---")
	assert.True(t, strings.Index(text, "Welcome") < strings.Index(text, "Founded"))
}

func TestCleanAllSkipsEmptyPages(t *testing.T) {
	pages := []model.SnapshotPage{
		{Name: "blank", Content: "<script>only();</script>"},
		{Name: "real", Content: "<p>Content.</p>"},
	}
	text := CleanAll(pages)
	assert.NotContains(t, text, "--- blank ---")
	assert.Contains(t, text, "--- real ---")
}

func TestTruncatePrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("a", 80) + ". " + strings.Repeat("b", 40)
	out := Truncate(text, 100)
	assert.Equal(t, strings.Repeat("a", 80)+".", out)
}

func TestTruncateHardCut(t *testing.T) {
	text := strings.Repeat("x", 200)
	out := Truncate(text, 100)
	assert.Equal(t, strings.Repeat("x", 100)+"...", out)
}

func TestTruncateShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
}
