package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// answerKey binds a pending save to the session it was given in.
type answerKey struct {
	sessionID  string
	questionID string
}

// ErrNoSession is returned by Runner operations that need a session before Begin or Resume.
var ErrNoSession = errors.New("no quiz session")

// Runner is the client side of a quiz attempt.
//
// Answers and navigation change local state immediately. Remote writes are debounced
// and fire-and-forget: failures are logged and the local state stays authoritative.
// Runner is safe for concurrent use.
type Runner struct {
	backend ports.QuizBackend
	logger  *slog.Logger
	window  time.Duration
	timeout time.Duration

	mu          sync.Mutex
	sessionID   string
	token       string
	questions   []domain.Question
	answers     domain.Answers
	index       int
	history     []int
	complete    bool
	completedAt time.Time
	feedback    *domain.Feedback

	saves *Debouncer[answerKey, domain.AnswerValue]
	// indexes is keyed by session id.
	indexes *Debouncer[string, int]
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDebounce overrides the coalescing window.
func WithDebounce(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.window = d
	}
}

// WithRunnerLogger sets the logger for backend failures.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRequestTimeout bounds each background backend call. Defaults to 10s.
func WithRequestTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a Runner talking to backend.
func NewRunner(backend ports.QuizBackend, opts ...RunnerOption) *Runner {
	r := &Runner{
		backend: backend,
		logger:  logging.NewNop(),
		window:  DefaultDebounce,
		timeout: 10 * time.Second,
		answers: make(domain.Answers),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.saves = NewDebouncer(r.window, r.sendAnswer)
	r.indexes = NewDebouncer(r.window, r.sendIndex)
	return r
}

// Begin creates a new remote session for surveyID.
func (r *Runner) Begin(ctx context.Context, surveyID string) error {
	snap, err := r.backend.Create(ctx, surveyID)
	if err != nil {
		return fmt.Errorf("failed to create quiz session: %w", err)
	}
	r.load(snap)
	return nil
}

// Resume restores a session by its resume token.
func (r *Runner) Resume(ctx context.Context, token string) error {
	snap, err := r.backend.FetchByResumeToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to resume quiz session: %w", err)
	}
	r.load(snap)
	return nil
}

func (r *Runner) load(snap *domain.QuizSnapshot) {
	// Writes pending for the previous session go out before it is replaced.
	r.saves.Flush()
	r.indexes.Flush()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessionID = snap.SessionID
	r.token = snap.ResumeToken
	r.questions = snap.Questions
	r.answers = make(domain.Answers, len(snap.Answers))
	maps.Copy(r.answers, snap.Answers)
	r.index = snap.CurrentIndex
	if r.index < 0 || r.index >= len(r.questions) {
		r.index = 0
	}
	r.history = nil
	r.complete = snap.IsComplete
	r.feedback = snap.Feedback
}

// SessionID returns the remote session id, empty before Begin or Resume.
func (r *Runner) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// ResumeToken returns the token to pass to Resume later.
func (r *Runner) ResumeToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// Current returns the question at the current index.
func (r *Runner) Current() (domain.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index < 0 || r.index >= len(r.questions) {
		return domain.Question{}, false
	}
	return r.questions[r.index], true
}

// Index returns the current position in the question list.
func (r *Runner) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Answers returns a copy of the local answers.
func (r *Runner) Answers() domain.Answers {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.answers)
}

// Answer records value for questionID and schedules a remote save.
func (r *Runner) Answer(questionID string, value domain.AnswerValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessionID == "" {
		return ErrNoSession
	}
	idx := indexOf(r.questions, questionID)
	if idx == -1 {
		return fmt.Errorf("question %q: %w", questionID, ErrInvalidAnswer)
	}
	if err := ValidateAnswer(r.questions[idx], value); err != nil {
		return err
	}
	r.answers[questionID] = value
	r.saves.Schedule(answerKey{r.sessionID, questionID}, value)
	return nil
}

// Next advances to the next question on the path. It returns false at the end.
func (r *Runner) Next() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, ok := NextQuestion(r.questions, r.index, r.answers)
	if !ok {
		return false
	}
	r.history = append(r.history, r.index)
	r.index = next
	r.indexes.Schedule(r.sessionID, next)
	return true
}

// Previous returns to the question visited before the current one.
func (r *Runner) Previous() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.history)
	if n == 0 {
		return false
	}
	r.index = r.history[n-1]
	r.history = r.history[:n-1]
	r.indexes.Schedule(r.sessionID, r.index)
	return true
}

// Path returns the questions the participant will traverse given the current answers.
func (r *Runner) Path() []domain.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ComputePath(r.questions, r.answers)
}

// Progress returns the answered fraction of the current path.
func (r *Runner) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Progress(ComputePath(r.questions, r.answers), r.answers)
}

// Complete flushes pending saves and marks the session complete.
func (r *Runner) Complete(ctx context.Context) (time.Time, error) {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()
	if token == "" {
		return time.Time{}, ErrNoSession
	}

	r.Flush()

	at, err := r.backend.MarkComplete(ctx, token)
	if err != nil {
		r.logger.Error("failed to complete quiz", "session_id", r.SessionID(), "err", err)
		return time.Time{}, fmt.Errorf("failed to complete quiz: %w", err)
	}

	r.mu.Lock()
	r.complete = true
	r.completedAt = at
	r.mu.Unlock()
	return at, nil
}

// IsComplete reports whether the session was completed.
func (r *Runner) IsComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.complete
}

// Feedback returns the feedback received with a resumed session, if any.
func (r *Runner) Feedback() *domain.Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feedback
}

// Flush sends pending saves now.
func (r *Runner) Flush() {
	r.saves.Flush()
	r.indexes.Flush()
}

// Close flushes pending saves and stops scheduling new ones.
func (r *Runner) Close() {
	r.saves.Close()
	r.indexes.Close()
}

func (r *Runner) sendAnswer(key answerKey, value domain.AnswerValue) {
	sessionID, questionID := key.sessionID, key.questionID
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.backend.SaveAnswer(ctx, sessionID, questionID, value); err != nil {
		r.logger.Warn("failed to save answer", "session_id", sessionID, "question_id", questionID, "err", err)
	}
}

func (r *Runner) sendIndex(sessionID string, index int) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.backend.UpdateIndex(ctx, sessionID, index); err != nil {
		r.logger.Warn("failed to update index", "session_id", sessionID, "index", index, "err", err)
	}
}
