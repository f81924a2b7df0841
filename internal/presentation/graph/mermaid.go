package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Overlay marks a session's progress on the rendered graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
	// Answers highlights the chosen edge out of each answered node.
	Answers map[string]string
}

// OverlayFromState builds an overlay from a persisted traversal.
func OverlayFromState(s *domain.State) *Overlay {
	if s == nil {
		return nil
	}
	answers := make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	return &Overlay{
		VisitedNodes: append([]string(nil), s.History...),
		CurrentNode:  s.CurrentNodeID,
		Answers:      answers,
	}
}

// GenerateMermaid produces a Mermaid flowchart of g. Node shapes follow the kind:
// the start node is a circle, questions are parallelograms, info screens are
// rectangles and results are stadiums.
func GenerateMermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range g.NodeIDs() {
		node := g.Nodes[id]
		opener, closer := "[", "]"
		switch {
		case id == g.StartNodeID:
			opener, closer = "((", "))"
		case node.Kind == domain.KindQuestion:
			opener, closer = "[/", "/]"
		case node.Kind == domain.KindResult:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeID(id), opener, nodeLabel(node), closer)
	}

	var chosen []int
	for i, e := range g.Edges {
		arrow := "-->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(e.Label))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeID(e.From), arrow, sanitizeID(e.To))
		if overlay != nil && overlay.Answers[e.From] == e.OptionKey {
			chosen = append(chosen, i)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeID(id)
			if safeID == "" || seen[safeID] {
				continue
			}
			if _, ok := g.Nodes[id]; !ok {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeID(overlay.CurrentNode))
		}
		for _, i := range chosen {
			fmt.Fprintf(&sb, "    linkStyle %d stroke:#01579b,stroke-width:3px;\n", i)
		}
	}

	return sb.String()
}

func nodeLabel(n domain.Node) string {
	label := n.ID
	switch {
	case n.IsResult() && n.Title != "":
		label = n.Title
	case n.Text != "":
		label = n.Text
	}
	const maxLabel = 48
	if r := []rune(label); len(r) > maxLabel {
		label = string(r[:maxLabel-1]) + "…"
	}
	return escape(label)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}

func sanitizeID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
