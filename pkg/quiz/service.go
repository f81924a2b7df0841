package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Hooks observe service outcomes. Nil fields are skipped.
type Hooks struct {
	OnSessionCreated func(surveyID string)
	OnAnswerSaved    func(questionID string)
	OnFeedback       func(fallback bool)
}

// Service is the server side of the quiz: it implements ports.QuizBackend over a
// ports.SurveyRepository and produces feedback for completed attempts.
type Service struct {
	repo      ports.SurveyRepository
	generator ports.FeedbackGenerator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	hooks     Hooks
}

var _ ports.QuizBackend = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithGenerator sets the feedback generator. Defaults to StaticGenerator.
func WithGenerator(g ports.FeedbackGenerator) ServiceOption {
	return func(s *Service) {
		s.generator = g
	}
}

// WithServiceLogger sets the logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithServiceClock overrides the time source.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides how session ids and resume tokens are minted.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

// WithServiceHooks registers observers.
func WithServiceHooks(h Hooks) ServiceOption {
	return func(s *Service) {
		s.hooks = h
	}
}

// NewService creates a Service backed by repo.
func NewService(repo ports.SurveyRepository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:      repo,
		generator: StaticGenerator{},
		logger:    logging.NewNop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts an attempt on an active survey.
func (s *Service) Create(ctx context.Context, surveyID string) (*domain.QuizSnapshot, error) {
	survey, err := s.repo.Survey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.Active {
		return nil, fmt.Errorf("survey %q is not active: %w", surveyID, domain.ErrSurveyNotFound)
	}

	session := &domain.QuizSession{
		ID:          s.newID(),
		SurveyID:    survey.ID,
		ResumeToken: s.newID(),
		StartedAt:   s.now(),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create quiz session: %w", err)
	}
	s.logger.Info("quiz session created", "session_id", session.ID, "survey_id", survey.ID)
	if s.hooks.OnSessionCreated != nil {
		s.hooks.OnSessionCreated(survey.ID)
	}

	return &domain.QuizSnapshot{
		SessionID:    session.ID,
		ResumeToken:  session.ResumeToken,
		Questions:    survey.Questions,
		CurrentIndex: 0,
	}, nil
}

// FetchByResumeToken returns the attempt with its answers and any cached feedback.
func (s *Service) FetchByResumeToken(ctx context.Context, token string) (*domain.QuizSnapshot, error) {
	session, err := s.repo.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	survey, err := s.repo.Survey(ctx, session.SurveyID)
	if err != nil {
		return nil, err
	}
	answers, err := s.repo.Answers(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	return &domain.QuizSnapshot{
		SessionID:    session.ID,
		ResumeToken:  session.ResumeToken,
		Questions:    survey.Questions,
		CurrentIndex: session.CurrentIndex,
		Answers:      answers,
		IsComplete:   session.Completed(),
		Feedback:     session.Feedback,
	}, nil
}

// SaveAnswer validates value against its question and upserts it.
func (s *Service) SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error {
	session, err := s.repo.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	survey, err := s.repo.Survey(ctx, session.SurveyID)
	if err != nil {
		return err
	}
	idx := indexOf(survey.Questions, questionID)
	if idx == -1 {
		return fmt.Errorf("question %q: %w", questionID, ErrUnknownQuestion)
	}
	if err := ValidateAnswer(survey.Questions[idx], value); err != nil {
		return err
	}
	if err := s.repo.SaveAnswer(ctx, sessionID, questionID, value); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	if s.hooks.OnAnswerSaved != nil {
		s.hooks.OnAnswerSaved(questionID)
	}
	return nil
}

// UpdateIndex stores the participant's position.
func (s *Service) UpdateIndex(ctx context.Context, sessionID string, index int) error {
	return s.repo.UpdateIndex(ctx, sessionID, index)
}

// MarkComplete completes the attempt identified by token. Completing twice keeps the first time.
func (s *Service) MarkComplete(ctx context.Context, token string) (time.Time, error) {
	session, err := s.repo.SessionByToken(ctx, token)
	if err != nil {
		return time.Time{}, err
	}
	return s.repo.MarkComplete(ctx, session.ID, s.now())
}

// ErrUnknownQuestion is returned when an answer names a question outside the survey.
var ErrUnknownQuestion = errors.New("unknown question")

// FeedbackResult is the outcome of Feedback.
type FeedbackResult struct {
	Feedback domain.Feedback `json:"feedback"`
	Profile  domain.Profile  `json:"profile"`
}

// Feedback returns personalized feedback for a completed attempt, generating and
// caching it on first request. Generation failures degrade to FallbackFailure.
func (s *Service) Feedback(ctx context.Context, sessionID string) (*FeedbackResult, error) {
	session, err := s.repo.SessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Completed() {
		return nil, domain.ErrQuizNotCompleted
	}

	answers, err := s.repo.Answers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	profile := Evaluate(answers)

	if session.Feedback != nil {
		return &FeedbackResult{Feedback: *session.Feedback, Profile: profile}, nil
	}

	fb, err := s.generator.Generate(ctx, profile)
	if err != nil {
		s.logger.Error("failed to generate feedback", "session_id", sessionID, "err", err)
		fb = Fallback(FallbackFailure, profile)
	}
	if fb.CoursePrompts == nil {
		fb.CoursePrompts = CoursePrompts(profile.Gaps)
	}
	if s.hooks.OnFeedback != nil {
		s.hooks.OnFeedback(fb.Fallback)
	}

	if err := s.repo.SaveFeedback(ctx, sessionID, fb); err != nil {
		s.logger.Warn("failed to cache feedback", "session_id", sessionID, "err", err)
	}
	return &FeedbackResult{Feedback: fb, Profile: profile}, nil
}
