package domain

import "sort"

// Graph is the static decision tree: nodes by id, edges in declared order,
// and the node where every session starts.
type Graph struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title,omitempty" yaml:"title,omitempty"`
	StartNodeID string          `json:"start_node_id" yaml:"start_node_id"`
	Nodes       map[string]Node `json:"nodes" yaml:"nodes"`
	Edges       []Edge          `json:"edges" yaml:"edges"`
}

// NewGraph builds a graph from a list of nodes. Later nodes with a duplicate id win.
func NewGraph(id, startNodeID string, nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		ID:          id,
		StartNodeID: startNodeID,
		Nodes:       make(map[string]Node, len(nodes)),
		Edges:       edges,
	}
	for _, n := range nodes {
		g.Nodes[n.ID] = n
	}
	return g
}

// Normalize fills node ids from their map keys.
// Artifacts written by hand usually omit the redundant id field.
func (g *Graph) Normalize() {
	if g.Nodes == nil {
		g.Nodes = make(map[string]Node)
	}
	for id, n := range g.Nodes {
		if n.ID == "" {
			n.ID = id
			g.Nodes[id] = n
		}
	}
}

// NodeIDs returns every node id in lexical order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
