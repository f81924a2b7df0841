package loam

import "github.com/aretw0/wayfinder/pkg/domain"

// NodeMetadata is the frontmatter of a node document.
// The document body becomes the node text (or the intro of a result node).
type NodeMetadata struct {
	ID    string `json:"id" mapstructure:"id"`
	Graph string `json:"graph" mapstructure:"graph"`
	Kind  string `json:"kind" mapstructure:"kind"`
	// Start marks the entry node of the graph. Without it, the node named "start" is used.
	Start bool `json:"start" mapstructure:"start"`

	Description string `json:"description" mapstructure:"description"`

	Title            string           `json:"title" mapstructure:"title"`
	Intro            string           `json:"intro" mapstructure:"intro"`
	Sections         []domain.Section `json:"sections" mapstructure:"sections"`
	Links            []domain.Link    `json:"links" mapstructure:"links"`
	EmergencyNumbers []string         `json:"emergency_numbers" mapstructure:"emergency_numbers"`

	Edges []EdgeMetadata `json:"edges" mapstructure:"edges"`
}

// EdgeMetadata is an outgoing edge declared on its source node.
type EdgeMetadata struct {
	To          string `json:"to" mapstructure:"to"`
	Label       string `json:"label" mapstructure:"label"`
	Description string `json:"description" mapstructure:"description"`
	// OptionKey defaults to the target id.
	OptionKey string `json:"option_key" mapstructure:"option_key"`
}
