// Package model defines the domain types shared across the extraction pipeline.
package model

// NotFound is the sentinel stored in any string field that could not be
// extracted. It distinguishes "searched and absent" from an empty value.
const NotFound = "not_found"

// LocationType classifies a physical location.
type LocationType string

const (
	LocationHQ     LocationType = "HQ"
	LocationOffice LocationType = "Office"
	LocationBranch LocationType = "Branch"
)

// RoleCategory is the closed set of normalized person roles.
type RoleCategory string

const (
	RoleFounder   RoleCategory = "Founder"
	RoleExecutive RoleCategory = "Executive"
	RoleDirector  RoleCategory = "Director"
	RoleManager   RoleCategory = "Manager"
	RoleEmployee  RoleCategory = "Employee"
)

// FieldStatus marks whether a category was searched and confirmed present or
// searched and confirmed empty. A validated absence carries information; it is
// not a failure signal.
type FieldStatus string

const (
	StatusValidatedPresent FieldStatus = "validated_present"
	StatusValidatedAbsent  FieldStatus = "validated_absent"
)

// Location is a physical company location.
type Location struct {
	Type    LocationType `json:"type"`
	Address string       `json:"address"`
	City    string       `json:"city"`
	Country string       `json:"country"`
}

// PersonRecord is a validated person associated with the company. Records are
// only materialized for candidates that passed the deterministic person gate.
type PersonRecord struct {
	PersonName        string       `json:"person_name"`
	Role              string       `json:"role"`
	AssociatedCompany string       `json:"associated_company"`
	RoleCategory      RoleCategory `json:"role_category"`
}

// ContactInformation holds all deterministic contact fields. Email and phone
// slices preserve first-seen order.
type ContactInformation struct {
	EmailAddresses  []string `json:"email_addresses"`
	PhoneNumbers    []string `json:"phone_numbers"`
	PhysicalAddress string   `json:"physical_address"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	ContactPage     string   `json:"contact_page"`
}

// ServiceOrProduct is a single structured offering.
type ServiceOrProduct struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Type   string `json:"type"` // "service" or "product"
}

// SocialMediaLink is a detected social profile.
type SocialMediaLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Certification is a keyword-matched certification with its issuing authority
// when one can be inferred.
type Certification struct {
	CertificationName string `json:"certification_name"`
	IssuingAuthority  string `json:"issuing_authority"`
}

// TechStackSignals buckets detected technologies by category.
type TechStackSignals struct {
	CMS       []string `json:"cms"`
	Analytics []string `json:"analytics"`
	Frontend  []string `json:"frontend"`
	Marketing []string `json:"marketing"`
}

// All returns every detected technology across buckets, deduplicated,
// preserving bucket order.
func (t TechStackSignals) All() []string {
	seen := make(map[string]bool)
	var out []string
	for _, bucket := range [][]string{t.CMS, t.Analytics, t.Frontend, t.Marketing} {
		for _, tech := range bucket {
			if tech != "" && !seen[tech] {
				seen[tech] = true
				out = append(out, tech)
			}
		}
	}
	return out
}

// CompanyProfile is the mandatory output record of an extraction. Every string
// field is either meaningful text or NotFound; every list is non-nil after
// Normalize. A profile is built once per request and immutable once finalized.
type CompanyProfile struct {
	CompanyName      string `json:"company_name"`
	Domain           string `json:"domain"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	Industry         string `json:"industry"`
	SubIndustry      string `json:"sub_industry"`
	LogoURL          string `json:"logo_url"`

	ServicesOffered []string           `json:"services_offered"`
	ProductsOffered []string           `json:"products_offered"`
	Services        []ServiceOrProduct `json:"services"`

	ContactInformation ContactInformation `json:"contact_information"`

	PeopleInformation []PersonRecord `json:"people_information"`
	PeopleStatus      FieldStatus    `json:"people_status"`

	SocialMedia  []SocialMediaLink `json:"social_media"`
	SocialStatus FieldStatus       `json:"social_status"`

	Certifications      []Certification `json:"certifications"`
	CertificationStatus FieldStatus     `json:"certification_status"`

	Locations []Location `json:"locations"`

	TechStackSignals TechStackSignals `json:"tech_stack_signals"`
}

// Normalize replaces nil slices with empty ones and empty strings with the
// sentinel so a marshaled profile never contains null or absent fields.
func (p *CompanyProfile) Normalize() {
	for _, s := range []*string{
		&p.CompanyName, &p.Domain, &p.ShortDescription, &p.LongDescription,
		&p.Industry, &p.SubIndustry, &p.LogoURL,
		&p.ContactInformation.PhysicalAddress, &p.ContactInformation.City,
		&p.ContactInformation.Country, &p.ContactInformation.ContactPage,
	} {
		if *s == "" {
			*s = NotFound
		}
	}
	if p.ServicesOffered == nil {
		p.ServicesOffered = []string{}
	}
	if p.ProductsOffered == nil {
		p.ProductsOffered = []string{}
	}
	if p.Services == nil {
		p.Services = []ServiceOrProduct{}
	}
	if p.ContactInformation.EmailAddresses == nil {
		p.ContactInformation.EmailAddresses = []string{}
	}
	if p.ContactInformation.PhoneNumbers == nil {
		p.ContactInformation.PhoneNumbers = []string{}
	}
	if p.PeopleInformation == nil {
		p.PeopleInformation = []PersonRecord{}
	}
	if p.SocialMedia == nil {
		p.SocialMedia = []SocialMediaLink{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	if p.Locations == nil {
		p.Locations = []Location{}
	}
	for _, b := range []*[]string{
		&p.TechStackSignals.CMS, &p.TechStackSignals.Analytics,
		&p.TechStackSignals.Frontend, &p.TechStackSignals.Marketing,
	} {
		if *b == nil {
			*b = []string{}
		}
	}
}
