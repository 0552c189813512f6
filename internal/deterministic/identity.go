package deterministic

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// titleSuffix strips taglines appended to <title> text after a separator,
// e.g. "Acme Corp - Industrial Robots" -> "Acme Corp".
var titleSuffix = regexp.MustCompile(`\s*[|\-–—•:].*$`)

// NormalizeDomain reduces a URL or hostname to a bare registrable domain:
// scheme, www prefix, port, path, and casing removed.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "www.")
	for _, sep := range []string{"/", ":", "?", "#"} {
		if idx := strings.Index(d, sep); idx >= 0 {
			d = d[:idx]
		}
	}
	return d
}

// extractCompanyName takes the first non-empty page <title>, trimmed of
// taglines. When no page carries a usable title the first domain label is
// title-cased instead, so the name is never empty.
func extractCompanyName(docs []*goquery.Document, domain string) string {
	for _, doc := range docs {
		title := strings.TrimSpace(doc.Find("title").First().Text())
		if title == "" {
			continue
		}
		name := strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
		if name != "" && len(name) <= 80 {
			return name
		}
	}

	label := domain
	if idx := strings.Index(label, "."); idx > 0 {
		label = label[:idx]
	}
	return titleCaser.String(label)
}
