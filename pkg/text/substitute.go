// Package text resolves placeholder tokens in node text from session state.
package text

import "strings"

const (
	// NameToken is replaced by the user's display name.
	NameToken = "[Nome]"
	// RelativeToken is replaced by the relative chosen at RelativeNode.
	RelativeToken = "[Parente selezionato]"
	// RelativeNode is the node whose answer selects the relative.
	RelativeNode = "min_parenti"
)

// relativeLabels maps an option key recorded at RelativeNode to its display label.
var relativeLabels = map[string]string{
	"fratello": "fratello/sorella",
	"nonno":    "nonno/nonna",
	"zio":      "zio/zia",
	"cugino":   "cugino/a",
	"prozio":   "fratello/sorella del nonno",
}

// Substituter replaces a fixed set of tokens. The zero value replaces nothing.
type Substituter struct {
	nameToken string
	lookups   []lookup
}

type lookup struct {
	token  string
	nodeID string
	labels map[string]string
}

// New returns a Substituter that replaces nameToken with the user name.
// An empty nameToken disables name replacement.
func New(nameToken string) *Substituter {
	return &Substituter{nameToken: nameToken}
}

// WithLookup adds a token resolved through labels keyed by the answer recorded at nodeID.
func (s *Substituter) WithLookup(token, nodeID string, labels map[string]string) *Substituter {
	s.lookups = append(s.lookups, lookup{token: token, nodeID: nodeID, labels: labels})
	return s
}

// Apply replaces every token occurrence in one pass.
// Replacement values are never rescanned, so tokens cannot nest.
func (s *Substituter) Apply(text, userName string, answers map[string]string) string {
	var pairs []string
	if s.nameToken != "" {
		pairs = append(pairs, s.nameToken, userName)
	}
	for _, l := range s.lookups {
		pairs = append(pairs, l.token, l.labels[answers[l.nodeID]])
	}
	if len(pairs) == 0 {
		return text
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

var defaultSubstituter = New(NameToken).WithLookup(RelativeToken, RelativeNode, relativeLabels)

// Substitute resolves [Nome] and [Parente selezionato] in text.
// Missing names, answers or labels resolve to the empty string.
func Substitute(text, userName string, answers map[string]string) string {
	return defaultSubstituter.Apply(text, userName, answers)
}

// SelectedRelative returns the label of the relative chosen at RelativeNode, or "".
func SelectedRelative(answers map[string]string) string {
	return relativeLabels[answers[RelativeNode]]
}
