package quiz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

func screening(t *testing.T) []domain.Question {
	t.Helper()
	c, err := content.Catalog(context.Background())
	require.NoError(t, err)
	s, err := c.Survey(context.Background(), content.ScreeningSurveyID)
	require.NoError(t, err)
	return s.Questions
}

func TestComputePath_RecomputesOnBranchChange(t *testing.T) {
	questions := screening(t)

	answers := domain.Answers{
		quiz.QAware:       domain.Single("no", "false"),
		quiz.QWhyNotAware: domain.Single("no-time", "no-time"),
	}
	assert.Equal(t,
		[]string{"q1-aware", "q1b-whynot-aware", "q5-concerns", "q6-priorities", "q4-expectations"},
		quiz.PathIDs(questions, answers))

	answers[quiz.QAware] = domain.Single("yes", "true")
	ids := quiz.PathIDs(questions, answers)
	assert.Equal(t, []string{"q1-aware", "q1a-tools", "q2-work"}, ids[:3])
	assert.NotContains(t, ids, "q1b-whynot-aware")
	assert.Contains(t, ids, "q3-profile")
}

func TestComputePath_WorkBranch(t *testing.T) {
	questions := screening(t)
	answers := domain.Answers{
		quiz.QAware: domain.Single("yes", "true"),
		quiz.QWork:  domain.Single("yes", "true"),
	}
	assert.Equal(t, []string{
		"q1-aware", "q1a-tools", "q2-work",
		"q2a-activities", "q2a2-frequency", "q2a3-challenges", "q2c-satisfaction",
		"q3-profile", "q5-concerns", "q6-priorities", "q4-expectations",
	}, quiz.PathIDs(questions, answers))

	answers[quiz.QWork] = domain.Single("no", "false")
	ids := quiz.PathIDs(questions, answers)
	assert.Contains(t, ids, "q2d-barriers")
	assert.NotContains(t, ids, "q2a-activities")
}

func TestNextQuestion_Precedence(t *testing.T) {
	questions := []domain.Question{
		{ID: "a", Type: domain.SingleChoice, NextQuestionID: "c", Options: []domain.Option{
			{ID: "jump", Value: "jump", NextQuestionID: "d"},
			{ID: "stay", Value: "stay"},
		}},
		{ID: "b"},
		{ID: "c"},
		{ID: "d"},
		{ID: "e", ShowCondition: cond("a", domain.OpEquals, "never")},
	}

	next, ok := quiz.NextQuestion(questions, 0, domain.Answers{"a": domain.Single("jump", "jump")})
	require.True(t, ok)
	assert.Equal(t, 3, next, "option jump wins")

	next, ok = quiz.NextQuestion(questions, 0, domain.Answers{"a": domain.Single("stay", "stay")})
	require.True(t, ok)
	assert.Equal(t, 2, next, "question jump applies when the option has none")

	questions[0].NextQuestionID = ""
	next, ok = quiz.NextQuestion(questions, 0, domain.Answers{})
	require.True(t, ok)
	assert.Equal(t, 1, next, "forward scan")

	_, ok = quiz.NextQuestion(questions, 3, domain.Answers{"a": domain.Single("stay", "stay")})
	assert.False(t, ok, "hidden trailing question ends the walk")
}

func TestNextQuestion_UnknownJumpFallsThrough(t *testing.T) {
	questions := []domain.Question{
		{ID: "a", NextQuestionID: "ghost"},
		{ID: "b"},
	}
	next, ok := quiz.NextQuestion(questions, 0, domain.Answers{})
	require.True(t, ok)
	assert.Equal(t, 1, next)
}

func TestComputePath_StopsOnCycles(t *testing.T) {
	questions := []domain.Question{
		{ID: "a", NextQuestionID: "b"},
		{ID: "b", NextQuestionID: "a"},
		{ID: "c"},
	}
	assert.Equal(t, []string{"a", "b"}, quiz.PathIDs(questions, domain.Answers{}))
}

func TestComputePath_NothingVisible(t *testing.T) {
	questions := []domain.Question{{ID: "a", ShowCondition: cond("x", domain.OpEquals, "y")}}
	assert.Empty(t, quiz.ComputePath(questions, domain.Answers{}))
}

func TestProgress(t *testing.T) {
	questions := screening(t)
	answers := domain.Answers{
		quiz.QAware:       domain.Single("no", "false"),
		quiz.QWhyNotAware: domain.Single("no-time", "no-time"),
	}
	path := quiz.ComputePath(questions, answers)
	assert.InDelta(t, 0.4, quiz.Progress(path, answers), 1e-9)
	assert.Equal(t, 40, quiz.Percent(path, answers))

	assert.Zero(t, quiz.Progress(nil, answers))
}
