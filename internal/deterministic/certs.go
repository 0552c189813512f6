package deterministic

import (
	"strings"

	"github.com/sells-group/company-intel/internal/model"
)

// ExtractCertifications finds certification keywords in cleaned text and
// attaches the issuing authority when the certification family is known.
// Matching is case-insensitive; "PCI DSS" and "PCI-DSS" collapse to one
// record.
func ExtractCertifications(text string) []model.Certification {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var certs []model.Certification
	for _, kw := range signals.Certifications {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			continue
		}
		canonical := strings.ReplaceAll(kw, " DSS", "-DSS")
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		certs = append(certs, model.Certification{
			CertificationName: canonical,
			IssuingAuthority:  issuingAuthority(canonical),
		})
	}
	return certs
}

func issuingAuthority(cert string) string {
	for _, a := range signals.Authorities {
		if strings.HasPrefix(cert, a.Prefix) {
			return a.Authority
		}
	}
	return model.NotFound
}
