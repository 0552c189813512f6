// Package graph derives a knowledge graph from a validated company profile.
// Building is deterministic: the same profile always yields the same nodes
// and edges in the same order, so graphs can be diffed across runs.
package graph

import (
	"regexp"
	"strings"

	"github.com/sells-group/company-intel/internal/model"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = slugPattern.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

func nodeID(prefix, name string) string {
	return prefix + "_" + slug(name)
}

// Build constructs the graph for a profile. Every node traces back to a
// validated profile field; nothing is synthesized. Sentinel values produce no
// nodes, and locations without a real address are skipped entirely.
func Build(profile model.CompanyProfile) model.Graph {
	g := model.Graph{Nodes: []model.Node{}, Edges: []model.Edge{}}

	companyID := nodeID("company", profile.CompanyName)
	g.Nodes = append(g.Nodes, model.Node{
		ID:    companyID,
		Type:  model.NodeCompany,
		Label: profile.CompanyName,
		Properties: map[string]string{
			"domain":   profile.Domain,
			"industry": profile.Industry,
		},
	})

	seen := map[string]bool{companyID: true}
	add := func(node model.Node, rel model.Relationship) {
		if seen[node.ID] {
			return
		}
		seen[node.ID] = true
		g.Nodes = append(g.Nodes, node)
		g.Edges = append(g.Edges, model.Edge{
			Source:       companyID,
			Target:       node.ID,
			Relationship: rel,
		})
	}

	for _, p := range profile.PeopleInformation {
		if p.PersonName == "" || p.PersonName == model.NotFound {
			continue
		}
		add(model.Node{
			ID:    nodeID("person", p.PersonName),
			Type:  model.NodePerson,
			Label: p.PersonName,
			Properties: map[string]string{
				"role":          p.Role,
				"role_category": string(p.RoleCategory),
			},
		}, model.RelEmploys)
	}

	for _, s := range profile.Services {
		if s.Name == "" || s.Name == model.NotFound {
			continue
		}
		prefix := "service"
		if s.Type == "product" {
			prefix = "product"
		}
		add(model.Node{
			ID:    nodeID(prefix, s.Name),
			Type:  model.NodeOffering,
			Label: s.Name,
			Properties: map[string]string{
				"offering_type": s.Type,
			},
		}, model.RelOffers)
	}

	for _, loc := range profile.Locations {
		// A location is only a graph entity when it has a real address.
		if loc.Address == "" || loc.Address == model.NotFound {
			continue
		}
		label := loc.City
		if label == "" || label == model.NotFound {
			label = loc.Address
		}
		add(model.Node{
			ID:    nodeID("location", label),
			Type:  model.NodeLocation,
			Label: label,
			Properties: map[string]string{
				"location_type": string(loc.Type),
				"address":       loc.Address,
				"city":          loc.City,
				"country":       loc.Country,
			},
		}, model.RelLocatedAt)
	}

	for _, c := range profile.Certifications {
		if c.CertificationName == "" || c.CertificationName == model.NotFound {
			continue
		}
		add(model.Node{
			ID:    nodeID("certification", c.CertificationName),
			Type:  model.NodeCertification,
			Label: c.CertificationName,
			Properties: map[string]string{
				"issuing_authority": c.IssuingAuthority,
			},
		}, model.RelHasCertification)
	}

	for _, tech := range profile.TechStackSignals.All() {
		add(model.Node{
			ID:         nodeID("tech", tech),
			Type:       model.NodeTech,
			Label:      tech,
			Properties: map[string]string{},
		}, model.RelUsesTech)
	}

	return g
}
