package ports

import (
	"context"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// QuizBackend is the remote session-persistence collaborator used by the quiz runner.
// Callers treat every error as a soft failure.
type QuizBackend interface {
	Create(ctx context.Context, surveyID string) (*domain.QuizSnapshot, error)
	FetchByResumeToken(ctx context.Context, token string) (*domain.QuizSnapshot, error)
	SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error
	UpdateIndex(ctx context.Context, sessionID string, index int) error
	MarkComplete(ctx context.Context, token string) (time.Time, error)
}

// SurveyRepository is the server-side storage for surveys, quiz sessions and answers.
type SurveyRepository interface {
	// SaveSurvey inserts or replaces a survey and its questions.
	SaveSurvey(ctx context.Context, survey *domain.Survey) error

	// Survey returns domain.ErrSurveyNotFound for unknown IDs.
	Survey(ctx context.Context, id string) (*domain.Survey, error)

	// CreateSession stores a new session. ID and ResumeToken are set by the caller.
	CreateSession(ctx context.Context, session *domain.QuizSession) error

	// SessionByID and SessionByToken return domain.ErrSessionNotFound for unknown sessions.
	SessionByID(ctx context.Context, id string) (*domain.QuizSession, error)
	SessionByToken(ctx context.Context, token string) (*domain.QuizSession, error)

	// SaveAnswer upserts the answer for (sessionID, questionID).
	SaveAnswer(ctx context.Context, sessionID, questionID string, value domain.AnswerValue) error

	Answers(ctx context.Context, sessionID string) (domain.Answers, error)

	UpdateIndex(ctx context.Context, sessionID string, index int) error

	// MarkComplete sets CompletedAt once. Later calls keep the first timestamp and return it.
	MarkComplete(ctx context.Context, sessionID string, at time.Time) (time.Time, error)

	SaveFeedback(ctx context.Context, sessionID string, feedback domain.Feedback) error
}

// FeedbackGenerator turns an evaluation profile into personalized text.
// The returned text is opaque display content.
type FeedbackGenerator interface {
	Generate(ctx context.Context, profile domain.Profile) (domain.Feedback, error)
}
