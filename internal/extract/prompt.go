package extract

import (
	"strings"

	"github.com/sells-group/company-intel/internal/deterministic"
	"github.com/sells-group/company-intel/internal/model"
	"github.com/sells-group/company-intel/internal/snapshot"
)

// BuildPrompt assembles the semantic extraction prompt: instructions, the
// facts the deterministic layer already verified, and a truncated slice of
// page text. Verified facts are included so the model classifies instead of
// re-extracting, and is told not to contradict them.
func BuildPrompt(det *deterministic.Context, maxChars int) string {
	var b strings.Builder

	b.WriteString("Analyze the company website text below and respond with one JSON object with exactly these keys:\n")
	b.WriteString(`{"industry": "", "sub_industry": "", "short_description": "", "long_description": "", "services_offered": [], "products_offered": [], "people": [{"person_name": "", "role": ""}]}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Use only facts present in the text. Never invent names, numbers, or offerings.\n")
	b.WriteString("- Use the string \"" + model.NotFound + "\" for any field the text does not answer.\n")
	b.WriteString("- short_description: one sentence, at most 25 words.\n")
	b.WriteString("- long_description: at most 80 words.\n")
	b.WriteString("- Split offerings into services (work performed) and products (things sold).\n")
	b.WriteString("- people: only assign roles to the known people listed below; do not add new people.\n\n")

	b.WriteString("Verified facts (do not contradict):\n")
	b.WriteString("- company_name: " + det.CompanyName + "\n")
	b.WriteString("- domain: " + det.Domain + "\n")
	if len(det.Services) > 0 {
		b.WriteString("- detected offerings: " + strings.Join(det.Services, "; ") + "\n")
	}
	if len(det.People) > 0 {
		var names []string
		for _, p := range det.People {
			names = append(names, p.PersonName)
		}
		b.WriteString("- known people: " + strings.Join(names, "; ") + "\n")
	}
	b.WriteString("\nWebsite text:\n")
	b.WriteString(snapshot.Truncate(det.Text, maxChars))
	b.WriteString("\n\nJSON:")

	return b.String()
}

// strictSuffix is appended on the retry after an invalid-JSON response.
const strictSuffix = "\n\nYour previous answer was not valid JSON. Respond with ONLY the JSON object, no prose, no markdown."
