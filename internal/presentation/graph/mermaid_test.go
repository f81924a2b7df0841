package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/pkg/domain"
)

func demoGraph() *domain.Graph {
	return domain.NewGraph("demo", "start",
		[]domain.Node{
			{ID: "start", Kind: domain.KindQuestion, Text: "Sei in Italia?"},
			{ID: "info-1", Kind: domain.KindInfo, Text: "Nota \"importante\""},
			{ID: "ask", Kind: domain.KindQuestion, Text: "Hai un lavoro?"},
			{ID: "card", Kind: domain.KindResult, Title: "Carta di soggiorno"},
		},
		[]domain.Edge{
			{From: "start", To: "info-1", Label: "Sì", OptionKey: "yes"},
			{From: "start", To: "card", Label: "No", OptionKey: "no"},
			{From: "info-1", To: "ask", Label: "Continua", OptionKey: "next"},
			{From: "ask", To: "card", OptionKey: "yes"},
		},
	)
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{
			name:     "Start node is a circle",
			contains: []string{`start(("Sei in Italia?"))`},
		},
		{
			name:     "Kinds map to shapes",
			contains: []string{`ask[/"Hai un lavoro?"/]`, `card(["Carta di soggiorno"])`, `info_1["Nota 'importante'"]`},
		},
		{
			name:     "Edges carry labels",
			contains: []string{`start -- "Sì" --> info_1`, `ask --> card`},
		},
	}

	out := graph.GenerateMermaid(demoGraph(), nil)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.NotContains(t, out, "classDef", "no overlay styles without an overlay")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	state := domain.NewState("demo", "start")
	state.History = []string{"start", "info-1", "ghost"}
	state.CurrentNodeID = "ask"
	state.Answers = map[string]string{"start": "yes", "info-1": "next"}

	out := graph.GenerateMermaid(demoGraph(), graph.OverlayFromState(state))

	assert.Contains(t, out, "class start visited;")
	assert.Contains(t, out, "class info_1 visited;")
	assert.NotContains(t, out, "class ghost visited;", "unknown nodes are skipped")
	assert.Contains(t, out, "class ask current;")
	assert.Contains(t, out, "linkStyle 0 stroke")
	assert.Contains(t, out, "linkStyle 2 stroke")
	assert.NotContains(t, out, "linkStyle 1 ")
}

func TestOverlayFromNilState(t *testing.T) {
	assert.Nil(t, graph.OverlayFromState(nil))
}
