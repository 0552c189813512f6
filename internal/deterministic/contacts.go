package deterministic

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/company-intel/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// NANP numbers with optional country code and common separators.
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([2-9]\d{2})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})\b`)

	// File-looking strings that the email regex also matches (asset names
	// like hero@2x.png).
	emailAssetSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"}
)

// extractEmails scans cleaned text and mailto: links. Results are lowercased
// and deduplicated in first-seen order.
func extractEmails(text string, pages []model.SnapshotPage) []string {
	var found []string
	for _, m := range emailPattern.FindAllString(text, -1) {
		found = append(found, strings.ToLower(m))
	}
	// mailto: targets survive even when the address is not rendered as text.
	for _, p := range pages {
		for _, m := range emailPattern.FindAllString(p.Content, -1) {
			found = append(found, strings.ToLower(m))
		}
	}

	var emails []string
	for _, e := range found {
		if !looksLikeAsset(e) {
			emails = append(emails, e)
		}
	}
	return dedupe(emails)
}

func looksLikeAsset(email string) bool {
	for _, suffix := range emailAssetSuffixes {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

// extractPhones returns NANP numbers normalized to "(xxx) xxx-xxxx".
func extractPhones(text string) []string {
	var phones []string
	for _, m := range phonePattern.FindAllStringSubmatch(text, -1) {
		phones = append(phones, "("+m[1]+") "+m[2]+"-"+m[3])
	}
	return dedupe(phones)
}

var socialPlatforms = []struct {
	host     string
	platform string
}{
	{"linkedin.com", "LinkedIn"},
	{"twitter.com", "Twitter"},
	{"x.com", "Twitter"},
	{"facebook.com", "Facebook"},
	{"instagram.com", "Instagram"},
	{"github.com", "GitHub"},
	{"youtube.com", "YouTube"},
}

// extractSocialLinks collects anchors pointing at known social platforms,
// one link per platform (first seen wins).
func extractSocialLinks(docs []*goquery.Document) []model.SocialMediaLink {
	seen := make(map[string]bool)
	var links []model.SocialMediaLink
	for _, doc := range docs {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			lower := strings.ToLower(href)
			for _, sp := range socialPlatforms {
				if strings.Contains(lower, sp.host+"/") && !seen[sp.platform] {
					// Bare platform homepages carry no profile.
					if strings.TrimRight(lower[strings.Index(lower, sp.host):], "/") == sp.host {
						continue
					}
					seen[sp.platform] = true
					links = append(links, model.SocialMediaLink{
						Platform: sp.platform,
						URL:      strings.TrimSpace(href),
					})
				}
			}
		})
	}
	return links
}

var contactKeywords = []string{"contact-us", "contactus", "contact", "reach-us", "get-in-touch", "inquiry", "support"}

// extractContactPage finds the most likely contact page URL from anchor hrefs
// and link text, resolved against the company domain with query and fragment
// stripped.
func extractContactPage(docs []*goquery.Document, domain string) string {
	for _, kw := range contactKeywords {
		for _, doc := range docs {
			var found string
			doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				href, _ := s.Attr("href")
				lower := strings.ToLower(href)
				label := strings.ToLower(strings.TrimSpace(s.Text()))
				if strings.Contains(lower, kw) || strings.ReplaceAll(label, " ", "-") == kw {
					found = href
					return false
				}
				return true
			})
			if found != "" {
				return resolveURL(found, domain)
			}
		}
	}
	return ""
}

// resolveURL makes a possibly-relative href absolute against the domain and
// drops query strings and fragments.
func resolveURL(href, domain string) string {
	for _, sep := range []string{"?", "#"} {
		if idx := strings.Index(href, sep); idx >= 0 {
			href = href[:idx]
		}
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return "https://" + domain + "/" + strings.TrimLeft(href, "/")
}
