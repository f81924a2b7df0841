package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/pkg/adapters/sqlite"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

func openTestRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.Open(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_Contract(t *testing.T) {
	ports.RunSurveyRepositoryContract(t, openTestRepo(t))
}

func TestRepository_PragmasApplied(t *testing.T) {
	db := openTestRepo(t).DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, tt.pragma)
	}
}

func TestRepository_SaveSurveyReplacesQuestions(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	s := &domain.Survey{ID: "s", Title: "v1", Active: true, Questions: []domain.Question{
		{ID: "a", Order: 2, Type: domain.FreeText, Text: "A"},
		{ID: "b", Order: 1, Type: domain.FreeText, Text: "B"},
	}}
	require.NoError(t, repo.SaveSurvey(ctx, s))

	got, err := repo.Survey(ctx, "s")
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "b", got.Questions[0].ID, "questions come back in order")

	s.Title = "v2"
	s.Active = false
	s.Questions = s.Questions[:1]
	require.NoError(t, repo.SaveSurvey(ctx, s))

	got, err = repo.Survey(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.False(t, got.Active)
	assert.Len(t, got.Questions, 1)
}

func TestRepository_ShowConditionValueKeepsType(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSurvey(ctx, &domain.Survey{ID: "s", Active: true, Questions: []domain.Question{
		{ID: "a", Order: 1, Type: domain.YesNo, Text: "A"},
		{ID: "b", Order: 2, Type: domain.FreeText, Text: "B",
			ShowCondition: &domain.ShowCondition{QuestionID: "a", Operator: domain.OpEquals, Value: true}},
	}}))

	got, err := repo.Survey(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, true, got.Questions[1].ShowCondition.Value)
}

func TestRepository_AnswersOfUnknownSession(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.Answers(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.SaveAnswer(ctx, "ghost", "q", domain.Text("x")), domain.ErrSessionNotFound)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wayfinder.db")
	repo, err := sqlite.OpenFile(context.Background(), path)
	require.NoError(t, err)
	defer repo.Close()

	var mode string
	require.NoError(t, repo.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
