package engine

import "github.com/aretw0/wayfinder/pkg/domain"

// OptionsFor returns the outgoing edges of nodeID in declared order.
// Result nodes and unknown nodes yield an empty slice.
func OptionsFor(g *domain.Graph, nodeID string) []domain.Edge {
	options := []domain.Edge{}
	if g == nil {
		return options
	}
	for _, e := range g.Edges {
		if e.From == nodeID {
			options = append(options, e)
		}
	}
	return options
}

// ResolveNext returns the target of the edge matching (nodeID, optionKey).
// The boolean is false when no such edge exists, which only happens with a corrupt graph.
func ResolveNext(g *domain.Graph, nodeID, optionKey string) (string, bool) {
	if g == nil {
		return "", false
	}
	for _, e := range g.Edges {
		if e.From == nodeID && e.OptionKey == optionKey {
			return e.To, true
		}
	}
	return "", false
}

// IsTerminal reports whether nodeID is a result node.
// Unknown nodes are not terminal; callers check existence with LookupNode.
func IsTerminal(g *domain.Graph, nodeID string) bool {
	n, ok := LookupNode(g, nodeID)
	return ok && n.IsResult()
}

// LookupNode returns the node with the given id.
func LookupNode(g *domain.Graph, nodeID string) (domain.Node, bool) {
	if g == nil {
		return domain.Node{}, false
	}
	n, ok := g.Nodes[nodeID]
	return n, ok
}
