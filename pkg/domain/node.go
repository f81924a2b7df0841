package domain

// NodeKind controls how a node behaves during traversal.
type NodeKind string

const (
	// KindQuestion asks the user to pick one of its outgoing edges.
	KindQuestion NodeKind = "question"
	// KindInfo is an interstitial message with exactly one forced edge.
	KindInfo NodeKind = "info"
	// KindResult is a terminal outcome. It has no outgoing edges.
	KindResult NodeKind = "result"
)

// LinkCategory classifies an outbound link on a result node.
type LinkCategory string

const (
	LinkGuide    LinkCategory = "guide"
	LinkLegalAid LinkCategory = "legal_aid"
	LinkExternal LinkCategory = "external"
)

// Section is a titled block of body text on a result node.
type Section struct {
	Heading string `json:"heading" yaml:"heading" mapstructure:"heading"`
	Body    string `json:"body" yaml:"body" mapstructure:"body"`
}

// Link is an outbound reference shown on a result node.
type Link struct {
	Label    string       `json:"label" yaml:"label" mapstructure:"label"`
	URL      string       `json:"url" yaml:"url" mapstructure:"url"`
	Category LinkCategory `json:"category" yaml:"category" mapstructure:"category"`
}

// Node represents a single screen in the decision graph.
// Question and info nodes use Text/Description; result nodes use the remaining fields.
type Node struct {
	ID   string   `json:"id" yaml:"id" mapstructure:"id"`
	Kind NodeKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Text may contain placeholder tokens (see package text).
	Text        string `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	Title            string    `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Intro            string    `json:"intro,omitempty" yaml:"intro,omitempty" mapstructure:"intro"`
	Sections         []Section `json:"sections,omitempty" yaml:"sections,omitempty" mapstructure:"sections"`
	Links            []Link    `json:"links,omitempty" yaml:"links,omitempty" mapstructure:"links"`
	EmergencyNumbers []string  `json:"emergency_numbers,omitempty" yaml:"emergency_numbers,omitempty" mapstructure:"emergency_numbers"`
}

// IsResult reports whether the node ends traversal.
func (n Node) IsResult() bool {
	return n.Kind == KindResult
}

// Edge is a directed connection selected by OptionKey.
// The pair (From, OptionKey) identifies an edge.
type Edge struct {
	From        string `json:"from" yaml:"from" mapstructure:"from"`
	To          string `json:"to" yaml:"to" mapstructure:"to"`
	Label       string `json:"label" yaml:"label" mapstructure:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	OptionKey   string `json:"option_key" yaml:"option_key" mapstructure:"option_key"`
}
