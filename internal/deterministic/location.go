package deterministic

import (
	"regexp"
	"strings"

	"github.com/sells-group/company-intel/internal/model"
)

// addressPattern captures the text after an address marker on the same line.
var addressPattern = regexp.MustCompile(`(?i)(?:Address|Headquarters|HQ|Located at|Based in|Office)[\s:]*([^,\n][^\n]{9,119})`)

// addressIndicators are street-level tokens that make a line a plausible
// postal address on its own.
var addressIndicators = []string{
	"street", "st.", "avenue", "ave", "road", "rd", "boulevard", "blvd",
	"drive", "dr.", "lane", "ln", "suite", "ste", "floor", "building",
	"hq", "headquarters", "office", "located at", "based in",
}

var usZipPattern = regexp.MustCompile(`\b\d{5}(-\d{4})?\b`)

// invalidCities are words that land in the city slot when the line is really
// a thank-you or contact prompt.
var invalidCities = []string{"thanks", "thank", "you", "visit", "contact", "email", "phone"}

var countryPatterns = []string{
	"United States", "India", "United Kingdom", "Canada", "Australia",
	"Germany", "France",
}

var branchKeywords = []string{"branch"}
var hqKeywords = []string{"hq", "headquarters", "head office", "main office"}

// ExtractLocations scans cleaned text line by line for address-bearing lines.
// A line qualifies with a street-level indicator or a US ZIP code; bare
// country mentions near a marker still yield a country-only location. The
// first location defaults to HQ.
func ExtractLocations(text string) []model.Location {
	seen := make(map[string]bool)
	var locations []model.Location

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := addressPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		loc, ok := parseAddressLine(candidate)
		if !ok {
			continue
		}
		key := loc.Address + "|" + loc.City + "|" + loc.Country
		if seen[key] {
			continue
		}
		seen[key] = true
		loc.Type = classifyLocation(line, len(locations) == 0)
		locations = append(locations, loc)
	}
	return locations
}

// parseAddressLine validates and decomposes one candidate address string.
func parseAddressLine(candidate string) (model.Location, bool) {
	lower := strings.ToLower(candidate)
	country := matchCountry(candidate)

	hasIndicator := false
	for _, ind := range addressIndicators {
		if strings.Contains(lower, ind) {
			hasIndicator = true
			break
		}
	}
	hasZip := usZipPattern.MatchString(candidate)

	if !hasIndicator && !hasZip {
		// A bare country mention after a marker is still worth keeping:
		// "Based in: Thanks, United States" -> country only.
		if country != "" {
			return model.Location{
				Address: model.NotFound,
				City:    model.NotFound,
				Country: country,
			}, true
		}
		return model.Location{}, false
	}

	loc := model.Location{
		Address: candidate,
		City:    extractCity(candidate),
		Country: country,
	}
	if loc.City == "" {
		loc.City = model.NotFound
	}
	if loc.Country == "" {
		if hasZip {
			loc.Country = "United States"
		} else {
			loc.Country = model.NotFound
		}
	}
	return loc, true
}

// extractCity takes the comma-separated segment before the country or ZIP,
// rejecting prompt words that are not place names.
func extractCity(candidate string) string {
	parts := strings.Split(candidate, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		part := strings.TrimSpace(parts[i])
		if part == "" || matchCountry(part) != "" || usZipPattern.MatchString(part) {
			continue
		}
		lower := strings.ToLower(part)
		invalid := false
		for _, bad := range invalidCities {
			if lower == bad || strings.HasPrefix(lower, bad+" ") {
				invalid = true
				break
			}
		}
		if invalid || len(part) > 40 {
			continue
		}
		// State abbreviations and street segments are not cities.
		if i == 0 || len(part) <= 2 {
			continue
		}
		return part
	}
	return ""
}

func matchCountry(s string) string {
	for _, c := range countryPatterns {
		if strings.Contains(s, c) {
			return c
		}
	}
	return ""
}

func classifyLocation(line string, first bool) model.LocationType {
	lower := strings.ToLower(line)
	for _, kw := range hqKeywords {
		if strings.Contains(lower, kw) {
			return model.LocationHQ
		}
	}
	for _, kw := range branchKeywords {
		if strings.Contains(lower, kw) {
			return model.LocationBranch
		}
	}
	if first {
		return model.LocationHQ
	}
	return model.LocationOffice
}
