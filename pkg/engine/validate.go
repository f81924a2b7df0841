package engine

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ValidationError carries every integrity problem found in a graph.
type ValidationError struct {
	GraphID  string
	Problems []string
}

func (e *ValidationError) Error() string {
	name := e.GraphID
	if name == "" {
		name = "graph"
	}
	return fmt.Sprintf("%s: found %d errors:\n- %s", name, len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Check runs Validate and wraps the result as an error.
func Check(g *domain.Graph) error {
	problems := Validate(g)
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{GraphID: g.ID, Problems: problems}
}

// Validate reports every structural defect of g as a human-readable string.
// All checks run, so one call surfaces every problem. An empty result means valid.
func Validate(g *domain.Graph) []string {
	problems := []string{}
	if g == nil {
		return append(problems, "Graph is nil")
	}

	// 1. Start node
	if _, ok := g.Nodes[g.StartNodeID]; !ok {
		problems = append(problems, fmt.Sprintf("Start node %q does not exist in nodes", g.StartNodeID))
	}

	// 2. Edge endpoints
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.From]; !ok {
			problems = append(problems, fmt.Sprintf("Edge from %q to %q references non-existent source node", e.From, e.To))
		}
		if _, ok := g.Nodes[e.To]; !ok {
			problems = append(problems, fmt.Sprintf("Edge from %q to %q references non-existent target node", e.From, e.To))
		}
	}

	// 3. Edge counts per kind, and option keys unique per source
	outgoing := make(map[string]int, len(g.Nodes))
	keys := make(map[string]map[string]bool)
	for _, e := range g.Edges {
		outgoing[e.From]++
		if keys[e.From] == nil {
			keys[e.From] = make(map[string]bool)
		}
		if keys[e.From][e.OptionKey] {
			problems = append(problems, fmt.Sprintf("Node %q has duplicate option key %q", e.From, e.OptionKey))
		}
		keys[e.From][e.OptionKey] = true
	}

	for _, id := range g.NodeIDs() {
		count := outgoing[id]
		switch g.Nodes[id].Kind {
		case domain.KindQuestion:
			if count == 0 {
				problems = append(problems, fmt.Sprintf("Question node %q has no outgoing edges", id))
			}
		case domain.KindInfo:
			if count != 1 {
				problems = append(problems, fmt.Sprintf("Info node %q has %d outgoing edge(s) but should have exactly one", id, count))
			}
		case domain.KindResult:
			if count > 0 {
				problems = append(problems, fmt.Sprintf("Result node %q has %d outgoing edge(s) but should have none", id, count))
			}
		default:
			problems = append(problems, fmt.Sprintf("Node %q has unknown kind %q", id, g.Nodes[id].Kind))
		}
	}

	// 4. Reachability (BFS)
	visited := reachable(g)
	for _, id := range g.NodeIDs() {
		if !visited[id] {
			problems = append(problems, fmt.Sprintf("Node %q is not reachable from start node", id))
		}
	}

	return problems
}

// reachable crawls outgoing edges breadth-first from the start node.
func reachable(g *domain.Graph) map[string]bool {
	adjacency := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	visited := make(map[string]bool)
	queue := []string{g.StartNodeID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, target := range adjacency[current] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	return visited
}
