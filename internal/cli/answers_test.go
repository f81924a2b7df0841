package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

func screeningSurvey(t *testing.T) *domain.Survey {
	t.Helper()
	c, err := content.Catalog(context.Background())
	require.NoError(t, err)
	s, err := c.Survey(context.Background(), content.ScreeningSurveyID)
	require.NoError(t, err)
	return s
}

func TestParseAnswers(t *testing.T) {
	s := screeningSurvey(t)

	answers, err := ParseAnswers(s, []string{"q1-aware=yes", "q1a-tools=chatgpt, claude", "q2-work=no"})
	require.NoError(t, err)

	assert.Equal(t, domain.Single("yes", "true"), answers["q1-aware"])
	assert.Equal(t, domain.Multiple([]string{"chatgpt", "claude"}, []string{"chatgpt", "claude"}), answers["q1a-tools"])

	ids := quiz.PathIDs(s.Questions, answers)
	assert.Contains(t, ids, "q1a-tools")
	assert.Contains(t, ids, "q2-work")
	assert.NotContains(t, ids, "q2a-activities")
}

func TestParseAnswers_Rejects(t *testing.T) {
	s := screeningSurvey(t)

	_, err := ParseAnswers(s, []string{"q1-aware"})
	assert.ErrorIs(t, err, quiz.ErrInvalidAnswer)

	_, err = ParseAnswers(s, []string{"nope=yes"})
	assert.ErrorIs(t, err, quiz.ErrUnknownQuestion)

	_, err = ParseAnswers(s, []string{"q1-aware=maybe"})
	assert.ErrorIs(t, err, quiz.ErrInvalidAnswer)

	_, err = ParseAnswers(s, []string{"q1a-tools=chatgpt,unknown"})
	assert.ErrorIs(t, err, quiz.ErrInvalidAnswer)
}
