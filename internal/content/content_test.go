package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/quiz"
	"github.com/aretw0/wayfinder/pkg/session"
)

func TestBundledGraphIsValid(t *testing.T) {
	c, err := Catalog(context.Background())
	require.NoError(t, err)

	g, err := c.Graph(context.Background(), PermitGraphID)
	require.NoError(t, err)

	assert.Empty(t, engine.Validate(g))
	assert.Equal(t, "start", g.StartNodeID)
	assert.Len(t, g.Nodes, 77)

	info, ok := engine.LookupNode(g, "info_s8")
	require.True(t, ok)
	assert.Equal(t, domain.KindInfo, info.Kind)
	assert.Len(t, engine.OptionsFor(g, "info_s8"), 1)
}

func TestBundledGraph_RelativeSubstitution(t *testing.T) {
	c, err := Catalog(context.Background())
	require.NoError(t, err)
	g, err := c.Graph(context.Background(), PermitGraphID)
	require.NoError(t, err)

	m := session.NewMachine(g)
	m.Start("Amina")
	assert.Contains(t, m.View().Prompt, "Amina")

	// Drive to min_parenti and pick a relative, then check the follow-up prompt.
	st := m.State()
	st.CurrentNodeID = "min_parenti"
	m.Restore(st)
	require.True(t, m.SelectOption("nonno"))
	assert.Contains(t, m.View().Prompt, "nonno/nonna")
	assert.NotContains(t, m.View().Prompt, "[Parente selezionato]")
}

func TestBundledSurveyLintsClean(t *testing.T) {
	c, err := Catalog(context.Background())
	require.NoError(t, err)

	s, err := c.Survey(context.Background(), ScreeningSurveyID)
	require.NoError(t, err)

	errs, warnings := quiz.Lint(s)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
	assert.True(t, s.Active)
	assert.Equal(t, 1, s.Questions[0].Order)
	assert.Equal(t, ScreeningSurveyID, s.Questions[0].SurveyID)
}
