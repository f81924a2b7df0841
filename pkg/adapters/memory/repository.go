package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Repository implements ports.SurveyRepository in memory.
// Safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	surveys  map[string]domain.Survey
	sessions map[string]domain.QuizSession
	tokens   map[string]string // resume token -> session id
	answers  map[string]domain.Answers
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		surveys:  make(map[string]domain.Survey),
		sessions: make(map[string]domain.QuizSession),
		tokens:   make(map[string]string),
		answers:  make(map[string]domain.Answers),
	}
}

func (r *Repository) SaveSurvey(ctx context.Context, survey *domain.Survey) error {
	s := *survey
	s.Questions = slices.Clone(survey.Questions)
	for i := range s.Questions {
		s.Questions[i].SurveyID = s.ID
	}
	slices.SortStableFunc(s.Questions, func(a, b domain.Question) int { return a.Order - b.Order })

	r.mu.Lock()
	defer r.mu.Unlock()
	r.surveys[s.ID] = s
	return nil
}

func (r *Repository) Survey(ctx context.Context, id string) (*domain.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surveys[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, id)
	}
	s.Questions = slices.Clone(s.Questions)
	return &s, nil
}

func (r *Repository) CreateSession(ctx context.Context, session *domain.QuizSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = *session
	r.tokens[session.ResumeToken] = session.ID
	r.answers[session.ID] = make(domain.Answers)
	return nil
}

func (r *Repository) SessionByID(ctx context.Context, id string) (*domain.QuizSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *Repository) SessionByToken(ctx context.Context, token string) (*domain.QuizSession, error) {
	r.mu.RLock()
	id, ok := r.tokens[token]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return r.SessionByID(ctx, id)
}

func (r *Repository) SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	answers, ok := r.answers[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	answers[questionID] = value
	return nil
}

func (r *Repository) Answers(ctx context.Context, sessionID string) (domain.Answers, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	answers, ok := r.answers[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := make(domain.Answers, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out, nil
}

func (r *Repository) UpdateIndex(ctx context.Context, sessionID string, index int) error {
	return r.update(sessionID, func(s *domain.QuizSession) {
		s.CurrentIndex = index
	})
}

func (r *Repository) MarkComplete(ctx context.Context, sessionID string, at time.Time) (time.Time, error) {
	var completed time.Time
	err := r.update(sessionID, func(s *domain.QuizSession) {
		if s.CompletedAt == nil {
			s.CompletedAt = &at
		}
		completed = *s.CompletedAt
	})
	return completed, err
}

func (r *Repository) SaveFeedback(ctx context.Context, sessionID string, feedback domain.Feedback) error {
	return r.update(sessionID, func(s *domain.QuizSession) {
		fb := feedback
		fb.CoursePrompts = slices.Clone(feedback.CoursePrompts)
		s.Feedback = &fb
	})
}

func (r *Repository) update(sessionID string, fn func(*domain.QuizSession)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	fn(&s)
	r.sessions[sessionID] = s
	return nil
}
