package extract

import (
	"strings"

	"github.com/sells-group/company-intel/internal/deterministic"
	"github.com/sells-group/company-intel/internal/model"
)

const longDescriptionMaxWords = 80

// Merge combines both extraction layers into one profile under a fixed
// precedence: deterministic facts are authoritative for everything they
// cover (contacts, social, certifications, locations, people, logo, tech);
// the semantic layer only fills classification fields, descriptions, the
// service/product split, and roles for people the gate admitted without one.
// fields may be nil when no semantic output was available.
func Merge(det *deterministic.Context, fields map[string]any) model.CompanyProfile {
	p := model.CompanyProfile{
		CompanyName: det.CompanyName,
		Domain:      det.Domain,
		Industry:    fieldString(fields, "industry"),
		SubIndustry: fieldString(fields, "sub_industry"),
		LogoURL:     det.LogoURL,

		ContactInformation: model.ContactInformation{
			EmailAddresses:  det.Emails,
			PhoneNumbers:    det.Phones,
			PhysicalAddress: det.Address,
			City:            det.City,
			Country:         det.Country,
			ContactPage:     det.ContactPage,
		},

		SocialMedia:      det.SocialLinks,
		Certifications:   det.Certifications,
		Locations:        det.Locations,
		TechStackSignals: det.Tech,
	}

	p.ServicesOffered = fieldStrings(fields, "services_offered")
	p.ProductsOffered = fieldStrings(fields, "products_offered")
	if len(p.ServicesOffered) == 0 && len(p.ProductsOffered) == 0 {
		// No semantic split: everything the deterministic layer found is
		// treated as a service.
		p.ServicesOffered = det.Services
	}
	p.Services = structuredOfferings(p.ServicesOffered, p.ProductsOffered, det.Domain)

	p.ShortDescription = shortDescription(fields, p.ServicesOffered, p.ProductsOffered, det.Domain)
	p.LongDescription = truncateWords(fieldString(fields, "long_description"), longDescriptionMaxWords)

	p.PeopleInformation = mergePeople(det.People, fields)

	p.PeopleStatus = statusFor(len(p.PeopleInformation) > 0)
	p.SocialStatus = statusFor(len(p.SocialMedia) > 0)
	p.CertificationStatus = statusFor(len(p.Certifications) > 0)

	p.Normalize()
	return p
}

func statusFor(present bool) model.FieldStatus {
	if present {
		return model.StatusValidatedPresent
	}
	return model.StatusValidatedAbsent
}

// shortDescription prefers the semantic answer, then a sentence built from
// offerings, then a minimal sentence naming the domain. Never empty.
func shortDescription(fields map[string]any, services, products []string, domain string) string {
	if s := fieldString(fields, "short_description"); s != model.NotFound {
		return s
	}
	items := append(append([]string{}, services...), products...)
	if len(items) > 0 {
		if len(items) > 3 {
			items = items[:3]
		}
		return "Provider of " + strings.Join(items, ", ")
	}
	return "Company operating at " + domain
}

func structuredOfferings(services, products []string, domain string) []model.ServiceOrProduct {
	var out []model.ServiceOrProduct
	for _, s := range services {
		out = append(out, model.ServiceOrProduct{Domain: domain, Name: s, Type: "service"})
	}
	for _, p := range products {
		out = append(out, model.ServiceOrProduct{Domain: domain, Name: p, Type: "product"})
	}
	return out
}

// mergePeople keeps the deterministic roster exactly: the semantic layer may
// supply a role for a gated person that lacks one, but can never add,
// remove, or rename people. Names are re-checked against the gate so nothing
// invalid slips into the final profile.
func mergePeople(people []model.PersonRecord, fields map[string]any) []model.PersonRecord {
	llmRoles := fieldRoles(fields)

	var out []model.PersonRecord
	for _, p := range people {
		if !deterministic.ValidPersonName(p.PersonName) {
			continue
		}
		if p.Role == model.NotFound || p.Role == "" {
			if role, ok := llmRoles[strings.ToLower(p.PersonName)]; ok && role != "" && role != model.NotFound {
				p.Role = role
				p.RoleCategory = model.NormalizeRole(role)
			}
		}
		out = append(out, p)
	}
	return out
}

// fieldRoles indexes the semantic people list by lowercased name.
func fieldRoles(fields map[string]any) map[string]string {
	roles := make(map[string]string)
	raw, _ := fields["people"].([]any)
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["person_name"].(string)
		role, _ := entry["role"].(string)
		if name != "" {
			roles[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(role)
		}
	}
	return roles
}

// fieldString reads a string field, mapping absent, non-string, and empty
// values to the sentinel.
func fieldString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return model.NotFound
	}
	return s
}

// fieldStrings reads a string-list field, dropping empties and sentinels.
func fieldStrings(fields map[string]any, key string) []string {
	raw, _ := fields[key].([]any)
	var out []string
	for _, item := range raw {
		s, _ := item.(string)
		s = strings.TrimSpace(s)
		if s != "" && s != model.NotFound {
			out = append(out, s)
		}
	}
	return out
}

func truncateWords(s string, max int) string {
	if s == model.NotFound {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}
