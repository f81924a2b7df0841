package dsl

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
)

// Builder manages the graph construction.
type Builder struct {
	id    string
	title string
	start string
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder. The first node added becomes the start node
// unless Start is called.
func New(id string) *Builder {
	return &Builder{
		id:    id,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Title sets the display title of the graph.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Start overrides the start node.
func (b *Builder) Start(id string) *Builder {
	b.start = id
	return b
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{ID: id, Kind: domain.KindQuestion},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	if b.start == "" {
		b.start = id
	}
	return nb
}

// Build assembles the graph and validates it. The graph is returned even when
// invalid, together with an *engine.ValidationError listing every problem.
func (b *Builder) Build() (*domain.Graph, error) {
	nodes := make([]domain.Node, 0, len(b.order))
	var edges []domain.Edge
	for _, id := range b.order {
		nb := b.nodes[id]
		nodes = append(nodes, nb.node)
		edges = append(edges, nb.edges...)
	}

	g := domain.NewGraph(b.id, b.start, nodes, edges)
	g.Title = b.title
	if err := engine.Check(g); err != nil {
		return g, fmt.Errorf("failed to build graph: %w", err)
	}
	return g, nil
}

// MustBuild is like Build but panics on an invalid graph. Meant for tests and
// package-level fixtures.
func (b *Builder) MustBuild() *domain.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
