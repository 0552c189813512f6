package deterministic

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxServices = 15

var serviceHeadingPattern = regexp.MustCompile(`(?i)\bservices\b|\bsolutions\b|\bofferings\b|what we do|what we offer|\bproducts\b`)

// extractServices collects list items and card headings inside sections whose
// heading or class marks them as a services/products block. Items longer than
// a short phrase are page copy, not offering names, and are skipped.
func extractServices(docs []*goquery.Document) []string {
	var services []string
	for _, doc := range docs {
		doc.Find("section,div").Each(func(_ int, s *goquery.Selection) {
			if !isServiceSection(s) {
				return
			}
			s.Find("li,h3,h4").Each(func(_ int, item *goquery.Selection) {
				text := strings.TrimSpace(item.Text())
				if text == "" || len(text) > 60 || strings.Count(text, " ") > 7 {
					return
				}
				if serviceHeadingPattern.MatchString(text) && strings.Count(text, " ") < 2 {
					// Section title repeated inside the section.
					return
				}
				services = append(services, text)
			})
		})
	}
	services = dedupe(services)
	if len(services) > maxServices {
		services = services[:maxServices]
	}
	return services
}

func isServiceSection(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	if serviceHeadingPattern.MatchString(class) || serviceHeadingPattern.MatchString(id) {
		return true
	}
	heading := s.ChildrenFiltered("h1,h2,h3").First().Text()
	return heading != "" && serviceHeadingPattern.MatchString(heading)
}
