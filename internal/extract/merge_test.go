package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-intel/internal/deterministic"
	"github.com/sells-group/company-intel/internal/model"
)

func detContext() *deterministic.Context {
	return &deterministic.Context{
		Domain:      "acme.com",
		CompanyName: "Acme Corp",
		Emails:      []string{"info@acme.com"},
		Phones:      []string{"(312) 555-0142"},
		SocialLinks: []model.SocialMediaLink{{Platform: "LinkedIn", URL: "https://linkedin.com/company/acme"}},
		ContactPage: "https://acme.com/contact-us",
		Address:     "123 Main Street",
		City:        "Springfield",
		Country:     "United States",
		Locations: []model.Location{
			{Type: model.LocationHQ, Address: "123 Main Street", City: "Springfield", Country: "United States"},
		},
		People: []model.PersonRecord{
			{PersonName: "Jane Doe", Role: model.NotFound, AssociatedCompany: "Acme Corp", RoleCategory: model.RoleEmployee},
		},
		Services: []string{"Robot Assembly", "Maintenance"},
		Certifications: []model.Certification{
			{CertificationName: "ISO 9001", IssuingAuthority: "International Organization for Standardization"},
		},
		LogoURL: "https://acme.com/logo.png",
	}
}

func TestMergeDeterministicFieldsAreAuthoritative(t *testing.T) {
	// The semantic layer trying to overwrite verified facts must lose.
	fields := map[string]any{
		"industry":       "Manufacturing",
		"email":          "fake@例.com",
		"company_name":   "Totally Different Inc",
		"contact_page":   "https://spam.example",
		"certifications": []any{"Made Up Cert"},
	}
	p := Merge(detContext(), fields)

	assert.Equal(t, "Acme Corp", p.CompanyName)
	assert.Equal(t, []string{"info@acme.com"}, p.ContactInformation.EmailAddresses)
	assert.Equal(t, "https://acme.com/contact-us", p.ContactInformation.ContactPage)
	require.Len(t, p.Certifications, 1)
	assert.Equal(t, "ISO 9001", p.Certifications[0].CertificationName)
	assert.Equal(t, "Manufacturing", p.Industry)
}

func TestMergeSemanticFillsClassification(t *testing.T) {
	fields := map[string]any{
		"industry":          "Manufacturing",
		"sub_industry":      "Industrial Automation",
		"short_description": "Acme builds robots.",
		"long_description":  "Acme Corp designs and assembles industrial robots.",
		"services_offered":  []any{"Robot Assembly"},
		"products_offered":  []any{"Gripper X1"},
	}
	p := Merge(detContext(), fields)

	assert.Equal(t, "Manufacturing", p.Industry)
	assert.Equal(t, "Industrial Automation", p.SubIndustry)
	assert.Equal(t, "Acme builds robots.", p.ShortDescription)
	assert.Equal(t, []string{"Robot Assembly"}, p.ServicesOffered)
	assert.Equal(t, []string{"Gripper X1"}, p.ProductsOffered)

	require.Len(t, p.Services, 2)
	assert.Equal(t, model.ServiceOrProduct{Domain: "acme.com", Name: "Robot Assembly", Type: "service"}, p.Services[0])
	assert.Equal(t, model.ServiceOrProduct{Domain: "acme.com", Name: "Gripper X1", Type: "product"}, p.Services[1])
}

func TestMergeNilFieldsYieldsSentinels(t *testing.T) {
	p := Merge(detContext(), nil)

	assert.Equal(t, model.NotFound, p.Industry)
	assert.Equal(t, model.NotFound, p.SubIndustry)
	assert.Equal(t, model.NotFound, p.LongDescription)
	// Deterministic facts survive untouched.
	assert.Equal(t, []string{"info@acme.com"}, p.ContactInformation.EmailAddresses)
	assert.Equal(t, []string{"Robot Assembly", "Maintenance"}, p.ServicesOffered)
}

func TestMergeShortDescriptionFallsBackToOfferings(t *testing.T) {
	p := Merge(detContext(), nil)
	assert.Equal(t, "Provider of Robot Assembly, Maintenance", p.ShortDescription)
}

func TestMergeShortDescriptionFallsBackToDomain(t *testing.T) {
	det := detContext()
	det.Services = nil
	p := Merge(det, nil)
	assert.Equal(t, "Company operating at acme.com", p.ShortDescription)
}

func TestMergeLongDescriptionTruncatedTo80Words(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 120))
	p := Merge(detContext(), map[string]any{"long_description": long})
	assert.Len(t, strings.Fields(p.LongDescription), 80)
}

func TestMergeLLMFillsMissingRoleOnly(t *testing.T) {
	fields := map[string]any{
		"people": []any{
			map[string]any{"person_name": "Jane Doe", "role": "Chief Executive Officer"},
			map[string]any{"person_name": "Invented Person", "role": "CEO"},
		},
	}
	p := Merge(detContext(), fields)

	// Role filled for the gated person; the invented one never appears.
	require.Len(t, p.PeopleInformation, 1)
	assert.Equal(t, "Jane Doe", p.PeopleInformation[0].PersonName)
	assert.Equal(t, "Chief Executive Officer", p.PeopleInformation[0].Role)
	assert.Equal(t, model.RoleExecutive, p.PeopleInformation[0].RoleCategory)
}

func TestMergeLLMCannotOverwriteExistingRole(t *testing.T) {
	det := detContext()
	det.People[0].Role = "Founder"
	det.People[0].RoleCategory = model.RoleFounder
	fields := map[string]any{
		"people": []any{map[string]any{"person_name": "Jane Doe", "role": "Intern"}},
	}
	p := Merge(det, fields)
	require.Len(t, p.PeopleInformation, 1)
	assert.Equal(t, "Founder", p.PeopleInformation[0].Role)
	assert.Equal(t, model.RoleFounder, p.PeopleInformation[0].RoleCategory)
}

func TestMergeStatuses(t *testing.T) {
	p := Merge(detContext(), nil)
	assert.Equal(t, model.StatusValidatedPresent, p.PeopleStatus)
	assert.Equal(t, model.StatusValidatedPresent, p.SocialStatus)
	assert.Equal(t, model.StatusValidatedPresent, p.CertificationStatus)

	det := detContext()
	det.People = nil
	det.SocialLinks = nil
	det.Certifications = nil
	p = Merge(det, nil)
	assert.Equal(t, model.StatusValidatedAbsent, p.PeopleStatus)
	assert.Equal(t, model.StatusValidatedAbsent, p.SocialStatus)
	assert.Equal(t, model.StatusValidatedAbsent, p.CertificationStatus)
}

func TestMergeNeverProducesNulls(t *testing.T) {
	p := Merge(&deterministic.Context{Domain: "bare.com", CompanyName: "Bare"}, nil)

	assert.NotEmpty(t, p.ShortDescription)
	assert.Equal(t, model.NotFound, p.Industry)
	assert.NotNil(t, p.ContactInformation.EmailAddresses)
	assert.NotNil(t, p.PeopleInformation)
	assert.NotNil(t, p.SocialMedia)
	assert.NotNil(t, p.Certifications)
	assert.NotNil(t, p.Locations)
	assert.NotNil(t, p.Services)
	assert.Equal(t, model.NotFound, p.ContactInformation.PhysicalAddress)
}

func TestMergeIdempotent(t *testing.T) {
	fields := map[string]any{"industry": "Manufacturing"}
	a := Merge(detContext(), fields)
	b := Merge(detContext(), fields)
	assert.Equal(t, a, b)
}
