package model

// NodeType identifies the entity kind behind a graph node.
type NodeType string

const (
	NodeCompany       NodeType = "Company"
	NodePerson        NodeType = "Person"
	NodeOffering      NodeType = "Product/Service"
	NodeLocation      NodeType = "Location"
	NodeCertification NodeType = "Certification"
	NodeTech          NodeType = "Tech"
)

// Relationship labels a graph edge.
type Relationship string

const (
	RelEmploys          Relationship = "EMPLOYS"
	RelOffers           Relationship = "OFFERS"
	RelLocatedAt        Relationship = "LOCATED_AT"
	RelHasCertification Relationship = "HAS_CERTIFICATION"
	RelUsesTech         Relationship = "USES_TECH"
)

// Node is a single entity in the knowledge graph. Every node is traceable to
// a validated profile field.
type Node struct {
	ID         string            `json:"id"`
	Type       NodeType          `json:"type"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties"`
}

// Edge connects the company root to an entity node.
type Edge struct {
	Source       string       `json:"source"`
	Target       string       `json:"target"`
	Relationship Relationship `json:"relationship"`
}

// Graph is the knowledge graph derived from a validated profile.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
