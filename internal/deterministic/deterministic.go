// Package deterministic implements the rule-based extraction layer: regex and
// DOM extractors that pull verifiable facts out of HTML snapshots. Everything
// here is pure and reproducible; identical input always yields identical
// output. Fields this layer extracts are authoritative and are never
// overwritten by the semantic layer.
package deterministic

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/company-intel/internal/model"
	"github.com/sells-group/company-intel/internal/snapshot"
)

// Context carries every fact the deterministic layer recovered from a
// snapshot. It seeds the LLM prompt and wins all merge conflicts.
type Context struct {
	Domain      string
	CompanyName string

	Emails      []string
	Phones      []string
	SocialLinks []model.SocialMediaLink
	ContactPage string

	Address string
	City    string
	Country string

	Locations      []model.Location
	People         []model.PersonRecord
	Services       []string
	Certifications []model.Certification
	LogoURL        string
	Tech           model.TechStackSignals

	// Text is the cleaned, concatenated page text the extractors ran over.
	Text string
}

// Extract runs every deterministic extractor over the snapshot pages.
func Extract(pages []model.SnapshotPage, domain string) *Context {
	docs := parseDocs(pages)
	text := snapshot.CleanAll(pages)

	ctx := &Context{
		Domain: NormalizeDomain(domain),
		Text:   text,
	}
	ctx.CompanyName = extractCompanyName(docs, ctx.Domain)
	ctx.Emails = extractEmails(text, pages)
	ctx.Phones = extractPhones(text)
	ctx.SocialLinks = extractSocialLinks(docs)
	ctx.ContactPage = extractContactPage(docs, ctx.Domain)
	ctx.Locations = ExtractLocations(text)
	if len(ctx.Locations) > 0 {
		ctx.Address = ctx.Locations[0].Address
		ctx.City = ctx.Locations[0].City
		ctx.Country = ctx.Locations[0].Country
	}
	ctx.People = ExtractPeople(docs, text, ctx.CompanyName)
	ctx.Services = extractServices(docs)
	ctx.Certifications = ExtractCertifications(text)
	ctx.LogoURL = extractLogo(docs, ctx.Domain)
	ctx.Tech = ExtractTech(pages)

	zap.L().Debug("deterministic: extraction complete",
		zap.String("domain", ctx.Domain),
		zap.Int("emails", len(ctx.Emails)),
		zap.Int("phones", len(ctx.Phones)),
		zap.Int("people", len(ctx.People)),
		zap.Int("locations", len(ctx.Locations)),
	)
	return ctx
}

func parseDocs(pages []model.SnapshotPage) []*goquery.Document {
	var docs []*goquery.Document
	for _, p := range pages {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.Content))
		if err != nil {
			zap.L().Warn("deterministic: skipping unparseable page",
				zap.String("page", p.Name),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if it != "" && !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
