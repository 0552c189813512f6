package deterministic

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractLogo scores every <img> and returns the best candidate URL, resolved
// against the company domain. Scoring favors explicit logo markers over brand
// and icon hints; tiny images are not penalized but real-size ones get a
// bump.
func extractLogo(docs []*goquery.Document, domain string) string {
	best := ""
	bestScore := 0
	for _, doc := range docs {
		doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
			src, _ := s.Attr("src")
			if src == "" || strings.HasPrefix(src, "data:") {
				return
			}
			score := scoreLogoCandidate(s, src)
			if score > bestScore {
				bestScore = score
				best = src
			}
		})
	}
	if best == "" {
		return ""
	}
	return resolveURL(best, domain)
}

func scoreLogoCandidate(s *goquery.Selection, src string) int {
	class, _ := s.Attr("class")
	alt, _ := s.Attr("alt")
	id, _ := s.Attr("id")
	haystack := strings.ToLower(src + " " + class + " " + alt + " " + id)

	score := 0
	if strings.Contains(haystack, "logo") {
		score += 10
	}
	if strings.Contains(haystack, "brand") {
		score += 7
	}
	if strings.Contains(haystack, "icon") {
		score += 3
	}
	if w, _ := s.Attr("width"); w != "" {
		if width, err := strconv.Atoi(w); err == nil && width > 50 {
			score += 2
		}
	}
	return score
}
