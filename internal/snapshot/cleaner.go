package snapshot

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/company-intel/internal/model"
)

// removeTags are elements stripped wholesale before text extraction.
var removeTags = []string{
	"script", "style", "nav", "footer", "header",
	"aside", "iframe", "noscript", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
}

// chromeClassPattern matches class/id fragments that mark navigation chrome,
// cookie banners, and other non-content blocks.
var chromeClassPattern = regexp.MustCompile(`(?i)nav|navbar|navigation|menu|sidebar|footer|header|cookie|popup|modal|advertisement|share`)

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

// Clean strips chrome and markup from a raw HTML page and returns readable
// text. A page that fails to parse yields its raw text with tags crudely
// removed rather than an error.
func Clean(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeWhitespace(stripTags(html))
	}

	for _, tag := range removeTags {
		doc.Find(tag).Remove()
	}
	doc.Find("[class],[id]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if chromeClassPattern.MatchString(class) || chromeClassPattern.MatchString(id) {
			s.Remove()
		}
	})

	return normalizeWhitespace(doc.Text())
}

// CleanAll cleans every page and concatenates the results with per-page
// headers so downstream prompts can attribute content to its source page.
func CleanAll(pages []model.SnapshotPage) string {
	var parts []string
	for _, p := range pages {
		if cleaned := Clean(p.Content); cleaned != "" {
			parts = append(parts, "--- "+p.Name+" ---\n"+cleaned)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Truncate cuts text to at most maxChars, preferring a sentence boundary when
// one falls in the final 30% of the window.
func Truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if idx := strings.LastIndex(cut, "."); idx > int(float64(maxChars)*0.7) {
		return cut[:idx+1]
	}
	return cut + "..."
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func stripTags(html string) string {
	return tagPattern.ReplaceAllString(html, " ")
}

func normalizeWhitespace(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
