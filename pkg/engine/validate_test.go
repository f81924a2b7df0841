package engine_test

import (
	"errors"
	"testing"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidGraph(t *testing.T) {
	assert.Empty(t, engine.Validate(sampleGraph()))
	assert.NoError(t, engine.Check(sampleGraph()))
}

func TestValidate_DisconnectedNode(t *testing.T) {
	g := sampleGraph()
	g.Nodes["orphan"] = domain.Node{ID: "orphan", Kind: domain.KindResult}

	problems := engine.Validate(g)
	assert.Equal(t, []string{`Node "orphan" is not reachable from start node`}, problems)
}

func TestValidate_ReportsEveryDefect(t *testing.T) {
	g := sampleGraph()
	g.StartNodeID = "missing"
	g.Edges = append(g.Edges, domain.Edge{From: "branch", To: "ghost", OptionKey: "g"})

	problems := engine.Validate(g)

	assert.Contains(t, problems, `Start node "missing" does not exist in nodes`)
	assert.Contains(t, problems, `Edge from "branch" to "ghost" references non-existent target node`)
	assert.Contains(t, problems, `Node "start" is not reachable from start node`)
	assert.GreaterOrEqual(t, len(problems), 3)

	// Start check always comes first.
	assert.Equal(t, `Start node "missing" does not exist in nodes`, problems[0])
}

func TestValidate_EdgeCountsByKind(t *testing.T) {
	g := sampleGraph()
	g.Edges = append(g.Edges,
		domain.Edge{From: "notice", To: "end_y", OptionKey: "other"},
		domain.Edge{From: "end_x", To: "start", OptionKey: "again"},
	)
	g.Nodes["lonely"] = domain.Node{ID: "lonely", Kind: domain.KindQuestion}
	g.Edges = append(g.Edges, domain.Edge{From: "branch", To: "lonely", OptionKey: "l"})

	problems := engine.Validate(g)
	assert.Contains(t, problems, `Info node "notice" has 2 outgoing edge(s) but should have exactly one`)
	assert.Contains(t, problems, `Result node "end_x" has 1 outgoing edge(s) but should have none`)
	assert.Contains(t, problems, `Question node "lonely" has no outgoing edges`)
}

func TestValidate_DuplicateOptionKey(t *testing.T) {
	g := sampleGraph()
	g.Edges = append(g.Edges, domain.Edge{From: "start", To: "end_y", OptionKey: "no"})

	assert.Contains(t, engine.Validate(g), `Node "start" has duplicate option key "no"`)
}

func TestCheck_ReturnsValidationError(t *testing.T) {
	g := sampleGraph()
	g.StartNodeID = "missing"

	err := engine.Check(g)
	require.Error(t, err)

	var verr *engine.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "sample", verr.GraphID)
	assert.NotEmpty(t, verr.Problems)
	assert.Contains(t, err.Error(), "does not exist in nodes")
}
