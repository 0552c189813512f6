package deterministic

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-intel/internal/model"
)

func TestPersonGateRejectsSlogan(t *testing.T) {
	text := "Schedule A Demo today. Our team is ready. Contact the manager now."
	people := ExtractPeople(nil, text, "Acme")
	assert.Empty(t, people)
}

func TestPersonGateRejectsComplianceCopy(t *testing.T) {
	text := "We are PCI Certified and ISO Registered. Our director oversees Payment Services Group."
	people := ExtractPeople(nil, text, "Acme")
	assert.Empty(t, people)
}

func TestPersonGateNeedsTwoSignals(t *testing.T) {
	// Clean name shape, but no role keyword nearby, no team section, no
	// JSON-LD: one signal short of admission.
	text := "Jane Doe wrote a blog post about winter gardening."
	people := ExtractPeople(nil, text, "Acme")
	assert.Empty(t, people)
}

func TestPersonGateAdmitsShapePlusAdjacentRole(t *testing.T) {
	// Name shape plus a role keyword in the window is enough on its own;
	// no team section or structured data required.
	people := ExtractPeople(nil, "Jane Doe, Chief Executive Officer", "Acme")
	require.Len(t, people, 1)
	assert.Equal(t, "Jane Doe", people[0].PersonName)
	assert.Equal(t, "Chief Executive Officer", people[0].Role)
	assert.Equal(t, model.RoleExecutive, people[0].RoleCategory)
}

func TestPersonGateRoleMustShareLine(t *testing.T) {
	// A title on a neighboring line does not vouch for capitalized strings
	// like street names.
	text := "Headquarters: 123 Main Street, Springfield\nJane Doe, Chief Executive Officer"
	people := ExtractPeople(nil, text, "Acme")
	require.Len(t, people, 1)
	assert.Equal(t, "Jane Doe", people[0].PersonName)
}

func TestPersonGateAdmitsNameNearRole(t *testing.T) {
	doc := docFrom(t, `<section class="team"><h2>Our Team</h2>
		<p>Jane Doe, Chief Executive Officer</p></section>`)
	text := "Our Team\nJane Doe, Chief Executive Officer"
	people := ExtractPeople([]*goquery.Document{doc}, text, "Acme")
	require.Len(t, people, 1)
	assert.Equal(t, "Jane Doe", people[0].PersonName)
	assert.Equal(t, "Chief Executive Officer", people[0].Role)
	assert.Equal(t, model.RoleExecutive, people[0].RoleCategory)
	assert.Equal(t, "Acme", people[0].AssociatedCompany)
}

func TestPersonGateAdmitsJSONLDPerson(t *testing.T) {
	doc := docFrom(t, `<script type="application/ld+json">
		{"@context":"https://schema.org","@type":"Person","name":"John Smith","jobTitle":"Founder"}
	</script>`)
	people := ExtractPeople([]*goquery.Document{doc}, "", "Acme")
	require.Len(t, people, 1)
	assert.Equal(t, "John Smith", people[0].PersonName)
	assert.Equal(t, "Founder", people[0].Role)
	assert.Equal(t, model.RoleFounder, people[0].RoleCategory)
}

func TestPersonGateRoleSentinelWhenUnknown(t *testing.T) {
	doc := docFrom(t, `<script type="application/ld+json">
		{"@type":"Person","name":"Ana Torres"}
	</script>`)
	people := ExtractPeople([]*goquery.Document{doc}, "", "Acme")
	require.Len(t, people, 1)
	assert.Equal(t, model.NotFound, people[0].Role)
	assert.Equal(t, model.RoleEmployee, people[0].RoleCategory)
}

func TestValidNameShape(t *testing.T) {
	assert.True(t, validNameShape("Jane Doe"))
	assert.True(t, validNameShape("Mary O'Brien"))
	assert.True(t, validNameShape("Anne Smith-Jones"))
	assert.False(t, validNameShape("Jane"))
	assert.False(t, validNameShape("jane doe"))
	assert.False(t, validNameShape("Jane Doe123"))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, model.RoleFounder, model.NormalizeRole("Co-Founder & CEO"))
	assert.Equal(t, model.RoleExecutive, model.NormalizeRole("Chief Technology Officer"))
	assert.Equal(t, model.RoleExecutive, model.NormalizeRole("Vice President of Sales"))
	assert.Equal(t, model.RoleDirector, model.NormalizeRole("Director of Engineering"))
	assert.Equal(t, model.RoleManager, model.NormalizeRole("Engineering Lead"))
	assert.Equal(t, model.RoleEmployee, model.NormalizeRole("Software Engineer"))
	assert.Equal(t, model.RoleEmployee, model.NormalizeRole("not_found"))
}
