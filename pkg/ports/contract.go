package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		state := domain.NewState("permesso", "q_situazione")
		state.Answers["start"] = "no_ue"
		state.History = []string{"start"}
		state.UserName = "Amina"
		state.StartedAt = &started

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "permesso", loaded.GraphID)
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, "no_ue", loaded.Answers["start"])
		assert.Equal(t, []string{"start"}, loaded.History)
		assert.Equal(t, "Amina", loaded.UserName)
		require.NotNil(t, loaded.StartedAt)
		assert.True(t, started.Equal(*loaded.StartedAt))
	})

	t.Run("Saved state is isolated from caller", func(t *testing.T) {
		state := domain.NewState("permesso", "start")
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Answers["start"] = "mutated"
		state.History = append(state.History, "mutated")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.NotContains(t, loaded.Answers, "start")
		assert.Empty(t, loaded.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState("permesso", "start"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState("permesso", "start"))
		_ = store.Save(ctx, id2, domain.NewState("permesso", "start"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunSurveyRepositoryContract verifies the SurveyRepository semantics shared by every backend.
func RunSurveyRepositoryContract(t *testing.T, repo SurveyRepository) {
	ctx := context.Background()
	survey := &domain.Survey{
		ID:     "contract-survey",
		Title:  "Contract",
		Active: true,
		Questions: []domain.Question{
			{ID: "q1", Order: 1, Type: domain.YesNo, Text: "One?", Required: true,
				Options: []domain.Option{{ID: "yes", Label: "Sì", Value: "true"}, {ID: "no", Label: "No", Value: "false", NextQuestionID: "q3"}}},
			{ID: "q2", Order: 2, Type: domain.FreeText, Text: "Two?",
				ShowCondition: &domain.ShowCondition{QuestionID: "q1", Operator: domain.OpEquals, Value: "true"}},
			{ID: "q3", Order: 3, Type: domain.Ranking, Text: "Three?", NextQuestionID: "q1"},
		},
	}

	t.Run("Survey round trip", func(t *testing.T) {
		require.NoError(t, repo.SaveSurvey(ctx, survey))

		got, err := repo.Survey(ctx, survey.ID)
		require.NoError(t, err)
		assert.Equal(t, survey.Title, got.Title)
		assert.True(t, got.Active)
		require.Len(t, got.Questions, 3)
		assert.Equal(t, []string{"q1", "q2", "q3"}, []string{got.Questions[0].ID, got.Questions[1].ID, got.Questions[2].ID})
		assert.Equal(t, "q3", got.Questions[0].Options[1].NextQuestionID)
		require.NotNil(t, got.Questions[1].ShowCondition)
		assert.Equal(t, domain.OpEquals, got.Questions[1].ShowCondition.Operator)
		assert.Equal(t, "q1", got.Questions[2].NextQuestionID)
		assert.Equal(t, survey.ID, got.Questions[0].SurveyID)
	})

	t.Run("Unknown survey", func(t *testing.T) {
		_, err := repo.Survey(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrSurveyNotFound)
	})

	session := &domain.QuizSession{
		ID:          "contract-session",
		SurveyID:    survey.ID,
		ResumeToken: "contract-token",
		StartedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("Session lookup", func(t *testing.T) {
		require.NoError(t, repo.CreateSession(ctx, session))

		byID, err := repo.SessionByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ResumeToken, byID.ResumeToken)
		assert.False(t, byID.Completed())

		byToken, err := repo.SessionByToken(ctx, session.ResumeToken)
		require.NoError(t, err)
		assert.Equal(t, session.ID, byToken.ID)

		_, err = repo.SessionByToken(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		_, err = repo.SessionByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Answers upsert", func(t *testing.T) {
		require.NoError(t, repo.SaveAnswer(ctx, session.ID, "q1", domain.Single("yes", "true")))
		require.NoError(t, repo.SaveAnswer(ctx, session.ID, "q3", domain.Ranked([]string{"a", "b"})))
		require.NoError(t, repo.SaveAnswer(ctx, session.ID, "q1", domain.Single("no", "false")))

		answers, err := repo.Answers(ctx, session.ID)
		require.NoError(t, err)
		assert.Len(t, answers, 2)
		assert.Equal(t, domain.Single("no", "false"), answers["q1"])
		assert.Equal(t, []string{"a", "b"}, answers["q3"].RankedIDs)
	})

	t.Run("Index, completion and feedback", func(t *testing.T) {
		require.NoError(t, repo.UpdateIndex(ctx, session.ID, 2))

		first := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
		at, err := repo.MarkComplete(ctx, session.ID, first)
		require.NoError(t, err)
		assert.True(t, first.Equal(at))

		again, err := repo.MarkComplete(ctx, session.ID, first.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, first.Equal(again), "completion time is set once")

		fb := domain.Feedback{Text: "Grazie", CoursePrompts: []string{"uno", "due"}}
		require.NoError(t, repo.SaveFeedback(ctx, session.ID, fb))

		got, err := repo.SessionByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CurrentIndex)
		assert.True(t, got.Completed())
		require.NotNil(t, got.Feedback)
		assert.Equal(t, fb, *got.Feedback)
	})

	t.Run("Unknown session writes", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateIndex(ctx, "missing", 1), domain.ErrSessionNotFound)
		_, err := repo.MarkComplete(ctx, "missing", time.Now())
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
