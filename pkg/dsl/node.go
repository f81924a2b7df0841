package dsl

import "github.com/aretw0/wayfinder/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node and its outgoing edges.
type NodeBuilder struct {
	node    domain.Node
	edges   []domain.Edge
	builder *Builder
}

// Question marks the node as a question with the given prompt.
func (n *NodeBuilder) Question(text string) *NodeBuilder {
	n.node.Kind = domain.KindQuestion
	n.node.Text = text
	return n
}

// Info marks the node as an informational step with a single way forward.
func (n *NodeBuilder) Info(text string) *NodeBuilder {
	n.node.Kind = domain.KindInfo
	n.node.Text = text
	return n
}

// Result marks the node as terminal with a title. Any edges added so far are dropped.
func (n *NodeBuilder) Result(title string) *NodeBuilder {
	n.node.Kind = domain.KindResult
	n.node.Title = title
	n.edges = nil
	return n
}

// Describe sets the node description shown under the prompt.
func (n *NodeBuilder) Describe(description string) *NodeBuilder {
	n.node.Description = description
	return n
}

// Option adds an answer leading to target.
func (n *NodeBuilder) Option(key, label, target string) *NodeBuilder {
	n.edges = append(n.edges, domain.Edge{
		From:      n.node.ID,
		To:        target,
		Label:     label,
		OptionKey: key,
	})
	return n
}

// Hint sets the description of the last option added.
func (n *NodeBuilder) Hint(description string) *NodeBuilder {
	if len(n.edges) > 0 {
		n.edges[len(n.edges)-1].Description = description
	}
	return n
}

// Go adds the single "continue" edge of an info node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	return n.Option("continue", "Continua", target)
}

// Intro sets the text shown above the sections of a result.
func (n *NodeBuilder) Intro(text string) *NodeBuilder {
	n.node.Intro = text
	return n
}

func (n *NodeBuilder) Section(heading, body string) *NodeBuilder {
	n.node.Sections = append(n.node.Sections, domain.Section{Heading: heading, Body: body})
	return n
}

func (n *NodeBuilder) Link(category domain.LinkCategory, label, url string) *NodeBuilder {
	n.node.Links = append(n.node.Links, domain.Link{Label: label, URL: url, Category: category})
	return n
}

// Emergency appends numbers shown prominently on a result.
func (n *NodeBuilder) Emergency(numbers ...string) *NodeBuilder {
	n.node.EmergencyNumbers = append(n.node.EmergencyNumbers, numbers...)
	return n
}

// Add continues with another node of the same graph.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}

// Builder returns the graph builder the node belongs to.
func (n *NodeBuilder) Builder() *Builder {
	return n.builder
}
