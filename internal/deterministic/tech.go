package deterministic

import (
	"strings"

	"github.com/sells-group/company-intel/internal/model"
)

// ExtractTech matches technology fingerprints against raw page HTML. Matching
// runs on the raw markup because most signals live in script URLs and asset
// paths that cleaning removes. Each bucket is deduplicated.
func ExtractTech(pages []model.SnapshotPage) model.TechStackSignals {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(strings.ToLower(p.Content))
		b.WriteString("\n")
	}
	raw := b.String()

	return model.TechStackSignals{
		CMS:       matchFingerprints(raw, signals.Tech.CMS),
		Analytics: matchFingerprints(raw, signals.Tech.Analytics),
		Frontend:  matchFingerprints(raw, signals.Tech.Frontend),
		Marketing: matchFingerprints(raw, signals.Tech.Marketing),
	}
}

func matchFingerprints(raw string, fps []techFingerprint) []string {
	var found []string
	for _, fp := range fps {
		if strings.Contains(raw, strings.ToLower(fp.Pattern)) {
			found = append(found, fp.Name)
		}
	}
	return dedupe(found)
}
