package quiz_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

// fakeBackend records calls and serves a fixed snapshot.
type fakeBackend struct {
	mu        sync.Mutex
	snapshot  domain.QuizSnapshot
	saves     []string
	values    map[string]domain.AnswerValue
	indexes   []int
	bySession map[string][]string
	completed bool
	failSaves bool
}

func (f *fakeBackend) Create(ctx context.Context, surveyID string) (*domain.QuizSnapshot, error) {
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeBackend) FetchByResumeToken(ctx context.Context, token string) (*domain.QuizSnapshot, error) {
	if token != f.snapshot.ResumeToken {
		return nil, domain.ErrSessionNotFound
	}
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeBackend) SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves {
		return errors.New("network down")
	}
	if f.values == nil {
		f.values = make(map[string]domain.AnswerValue)
	}
	if f.bySession == nil {
		f.bySession = make(map[string][]string)
	}
	f.saves = append(f.saves, questionID)
	f.values[questionID] = value
	f.bySession[sessionID] = append(f.bySession[sessionID], questionID)
	return nil
}

func (f *fakeBackend) UpdateIndex(ctx context.Context, sessionID string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bySession == nil {
		f.bySession = make(map[string][]string)
	}
	f.indexes = append(f.indexes, index)
	f.bySession[sessionID] = append(f.bySession[sessionID], "index")
	return nil
}

func (f *fakeBackend) MarkComplete(ctx context.Context, token string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = true
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func newFake(t *testing.T) *fakeBackend {
	return &fakeBackend{snapshot: domain.QuizSnapshot{
		SessionID:   "s1",
		ResumeToken: "tok",
		Questions:   screening(t),
	}}
}

func TestRunner_AnswerIsLocalFirstAndDebounced(t *testing.T) {
	backend := newFake(t)
	r := quiz.NewRunner(backend, quiz.WithDebounce(time.Hour))
	require.NoError(t, r.Begin(context.Background(), "ai-screening-v1"))

	require.NoError(t, r.Answer(quiz.QAware, domain.Single("yes", "true")))
	require.NoError(t, r.Answer(quiz.QAware, domain.Single("no", "false")))

	assert.Equal(t, "false", r.Answers()[quiz.QAware].Value)
	assert.Empty(t, backend.saves, "nothing sent inside the window")

	r.Flush()
	assert.Equal(t, []string{quiz.QAware}, backend.saves, "one save per question")
	assert.Equal(t, "false", backend.values[quiz.QAware].Value, "last value wins")
}

func TestRunner_NavigationFollowsPath(t *testing.T) {
	backend := newFake(t)
	r := quiz.NewRunner(backend, quiz.WithDebounce(time.Hour))
	require.NoError(t, r.Begin(context.Background(), "ai-screening-v1"))

	require.NoError(t, r.Answer(quiz.QAware, domain.Single("no", "false")))
	require.True(t, r.Next())
	q, _ := r.Current()
	assert.Equal(t, quiz.QWhyNotAware, q.ID)

	require.NoError(t, r.Answer(quiz.QWhyNotAware, domain.Single("no-time", "no-time")))
	require.True(t, r.Next())
	q, _ = r.Current()
	assert.Equal(t, quiz.QConcerns, q.ID)

	require.True(t, r.Previous())
	q, _ = r.Current()
	assert.Equal(t, quiz.QWhyNotAware, q.ID, "back returns to the exact previous question")

	assert.Len(t, r.Path(), 5)
	assert.InDelta(t, 0.4, r.Progress(), 1e-9)

	r.Flush()
	assert.Equal(t, []int{2}, backend.indexes, "only the last index in the window is sent")
}

func TestRunner_RejectsInvalidAnswers(t *testing.T) {
	r := quiz.NewRunner(newFake(t))
	assert.ErrorIs(t, r.Answer(quiz.QAware, domain.Single("yes", "true")), quiz.ErrNoSession)

	require.NoError(t, r.Begin(context.Background(), "ai-screening-v1"))
	assert.ErrorIs(t, r.Answer("ghost", domain.Text("x")), quiz.ErrInvalidAnswer)
	assert.ErrorIs(t, r.Answer(quiz.QAware, domain.Text("x")), quiz.ErrInvalidAnswer)
}

func TestRunner_BackendFailuresDoNotBlock(t *testing.T) {
	backend := newFake(t)
	backend.failSaves = true
	r := quiz.NewRunner(backend, quiz.WithDebounce(time.Millisecond))
	require.NoError(t, r.Begin(context.Background(), "ai-screening-v1"))

	require.NoError(t, r.Answer(quiz.QAware, domain.Single("yes", "true")))
	r.Flush()
	assert.True(t, r.Next())
	assert.Equal(t, "true", r.Answers()[quiz.QAware].Value)
}

func TestRunner_CompleteFlushesFirst(t *testing.T) {
	backend := newFake(t)
	r := quiz.NewRunner(backend, quiz.WithDebounce(time.Hour))
	require.NoError(t, r.Begin(context.Background(), "ai-screening-v1"))
	require.NoError(t, r.Answer(quiz.QAware, domain.Single("yes", "true")))

	at, err := r.Complete(context.Background())
	require.NoError(t, err)
	assert.False(t, at.IsZero())
	assert.Equal(t, []string{quiz.QAware}, backend.saves)
	assert.True(t, backend.completed)
	assert.True(t, r.IsComplete())
	r.Close()
}

func TestRunner_PendingWritesStayWithTheirSession(t *testing.T) {
	backend := newFake(t)
	r := quiz.NewRunner(backend, quiz.WithDebounce(time.Hour))
	ctx := context.Background()

	require.NoError(t, r.Begin(ctx, "ai-screening-v1"))
	require.NoError(t, r.Answer(quiz.QAware, domain.Single("yes", "true")))
	require.True(t, r.Next())

	backend.mu.Lock()
	backend.snapshot.SessionID = "s2"
	backend.mu.Unlock()
	require.NoError(t, r.Begin(ctx, "ai-screening-v1"))
	assert.Equal(t, "s2", r.SessionID())

	r.Flush()
	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, map[string][]string{"s1": {quiz.QAware, "index"}}, backend.bySession)
}

func TestRunner_Resume(t *testing.T) {
	backend := newFake(t)
	backend.snapshot.CurrentIndex = 3
	backend.snapshot.Answers = domain.Answers{quiz.QAware: domain.Single("yes", "true")}

	r := quiz.NewRunner(backend)
	require.NoError(t, r.Resume(context.Background(), "tok"))
	assert.Equal(t, 3, r.Index())
	assert.Equal(t, "s1", r.SessionID())
	assert.Equal(t, "tok", r.ResumeToken())
	assert.Contains(t, r.Answers(), quiz.QAware)

	assert.Error(t, quiz.NewRunner(backend).Resume(context.Background(), "other"))
}
