package deterministic

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/company-intel/internal/model"
)

const maxPeople = 20

// nameCandidate matches two to four capitalized words. Hyphens and
// apostrophes are allowed inside a word (O'Brien, Smith-Jones).
var nameCandidate = regexp.MustCompile(`\b([A-Z][a-zA-Z'’\-]+(?:\s+[A-Z][a-zA-Z'’\-]+){1,3})\b`)

// rolePhrase captures the job title near a candidate name.
var rolePhrase = regexp.MustCompile(`(?i)\b(chief [a-z]+ officer|co-?founder|founder|ceo|cto|cfo|coo|president|vice president|director(?: of [a-z ]+)?|head of [a-z ]+|[a-z]+ manager|manager|principal [a-z]+|lead [a-z]+|[a-z]+ engineer|engineer|[a-z]+ developer|developer|designer|partner|consultant)\b`)

var roleKeywords = []string{
	"founder", "ceo", "cto", "cfo", "coo", "president", "vice president",
	"chief", "executive", "officer", "director", "manager", "head of",
	"lead", "principal", "partner", "engineer", "developer", "designer",
	"consultant",
}

// Phrases that pass the capitalized-words shape test but never name a person:
// product copy, compliance boilerplate, and call-to-action slogans.
var personBlacklist = []string{
	"service", "services", "product", "products", "platform", "solution",
	"payment", "pci", "iso", "soc", "certificate", "certified", "certification",
	"register", "registered", "policy", "terms", "privacy", "cookie",
	"chief", "officer", "executive", "president", "director", "manager",
	"founder",
	"demo", "pricing", "learn more", "read more", "get started", "sign up",
	"free trial", "contact us", "about us", "our team", "why choose",
	"quality you can trust", "your success", "all rights",
}

var teamSectionPattern = regexp.MustCompile(`(?i)team|leadership|management|about|founders|staff|our people`)

// ExtractPeople applies the deterministic person gate. A capitalized-words
// candidate is admitted with at least two of three independent signals that
// it names a person: a clean first-and-last-name shape, a role keyword
// within 200 characters, and a structured or team-page record (schema.org
// Person block or team/about section). Blacklisted phrases are vetoed
// regardless of signals.
func ExtractPeople(docs []*goquery.Document, text, companyName string) []model.PersonRecord {
	ldPeople := jsonLDPeople(docs)
	sectionText := teamSectionText(docs)

	seen := make(map[string]bool)
	var people []model.PersonRecord
	for _, m := range nameCandidate.FindAllStringIndex(text, -1) {
		name := text[m[0]:m[1]]
		if len(people) >= maxPeople {
			break
		}
		if seen[name] || blacklisted(name) {
			continue
		}

		window := contextWindow(text, m[0], m[1], 200)
		role, hasRole := roleNear(window, name)
		_, inLD := ldPeople[name]

		signals := 0
		if validNameShape(name) {
			signals++
		}
		if hasRole {
			signals++
		}
		if inLD || strings.Contains(sectionText, name) {
			signals++
		}
		if signals < 2 {
			continue
		}

		if ldRole, ok := ldPeople[name]; ok && ldRole != "" {
			role = ldRole
		}
		if role == "" {
			role = model.NotFound
		}
		seen[name] = true
		people = append(people, model.PersonRecord{
			PersonName:        name,
			Role:              role,
			AssociatedCompany: companyName,
			RoleCategory:      model.NormalizeRole(role),
		})
	}

	// Structured data is trustworthy on its own: admit JSON-LD people the
	// text scan missed.
	for name, role := range ldPeople {
		if len(people) >= maxPeople {
			break
		}
		if seen[name] || !validNameShape(name) || blacklisted(name) {
			continue
		}
		if role == "" {
			role = model.NotFound
		}
		seen[name] = true
		people = append(people, model.PersonRecord{
			PersonName:        name,
			Role:              role,
			AssociatedCompany: companyName,
			RoleCategory:      model.NormalizeRole(role),
		})
	}
	return people
}

// ValidPersonName reports whether a string passes the person gate's shape
// and blacklist checks. The merge layer re-runs this before finalizing a
// profile so no invalid name survives to the output.
func ValidPersonName(name string) bool {
	return validNameShape(name) && !blacklisted(name)
}

// validNameShape requires at least two words, each capitalized and made of
// letters, hyphens, or apostrophes, with a 60-character overall cap.
func validNameShape(name string) bool {
	if len(name) > 60 {
		return false
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if w[0] < 'A' || w[0] > 'Z' {
			return false
		}
		for _, r := range w {
			if !isNameRune(r) {
				return false
			}
		}
	}
	return true
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '-', r == '\'', r == '’':
		return true
	}
	return false
}

func blacklisted(name string) bool {
	lower := strings.ToLower(name)
	for _, b := range personBlacklist {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// contextWindow returns up to radius characters either side of the name,
// clipped at line breaks. A job title on a different line belongs to some
// other name.
func contextWindow(text string, start, end, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	if idx := strings.LastIndexByte(text[lo:start], '\n'); idx >= 0 {
		lo += idx + 1
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}
	if idx := strings.IndexByte(text[end:hi], '\n'); idx >= 0 {
		hi = end + idx
	}
	return text[lo:hi]
}

// roleNear looks for a job title in the window around the name, excluding the
// name itself so "Will Manager Smith" does not self-certify.
func roleNear(window, name string) (string, bool) {
	stripped := strings.Replace(window, name, "", 1)
	lower := strings.ToLower(stripped)
	hasKeyword := false
	for _, kw := range roleKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return "", false
	}
	if m := rolePhrase.FindString(stripped); m != "" {
		return strings.TrimSpace(m), true
	}
	return "", true
}

// jsonLDPeople pulls name -> jobTitle pairs out of schema.org Person blocks.
func jsonLDPeople(docs []*goquery.Document) map[string]string {
	people := make(map[string]string)
	for _, doc := range docs {
		doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
			collectLDPeople([]byte(s.Text()), people)
		})
	}
	return people
}

func collectLDPeople(raw []byte, out map[string]string) {
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return
	}
	walkLD(node, out)
}

func walkLD(node any, out map[string]string) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkLD(item, out)
		}
	case map[string]any:
		if t, _ := v["@type"].(string); strings.EqualFold(t, "Person") {
			if name, _ := v["name"].(string); name != "" {
				title, _ := v["jobTitle"].(string)
				out[strings.TrimSpace(name)] = strings.TrimSpace(title)
			}
		}
		for _, child := range v {
			walkLD(child, out)
		}
	}
}

// teamSectionText concatenates the text of sections whose heading or
// class/id marks them as team or about content.
func teamSectionText(docs []*goquery.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		doc.Find("section,div,article").Each(func(_ int, s *goquery.Selection) {
			class, _ := s.Attr("class")
			id, _ := s.Attr("id")
			if teamSectionPattern.MatchString(class) || teamSectionPattern.MatchString(id) {
				b.WriteString(s.Text())
				b.WriteString("\n")
				return
			}
			heading := s.Find("h1,h2,h3,h4").First().Text()
			if heading != "" && teamSectionPattern.MatchString(heading) {
				b.WriteString(s.Text())
				b.WriteString("\n")
			}
		})
	}
	return b.String()
}
