package http

import (
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

type createQuizRequest struct {
	SurveyID string `json:"surveyId"`
}

// quizSessionResponse is the wire form of a snapshot. Answers travel as a list.
type quizSessionResponse struct {
	SessionID     string            `json:"sessionId"`
	ResumeToken   string            `json:"resumeToken"`
	Questions     []domain.Question `json:"questions"`
	CurrentIndex  int               `json:"currentIndex"`
	Answers       []answerEntry     `json:"answers,omitempty"`
	IsComplete    bool              `json:"isComplete"`
	Feedback      *domain.Feedback  `json:"feedback,omitempty"`
	CoursePrompts []string          `json:"coursePrompts,omitempty"`
}

type answerEntry struct {
	QuestionID string             `json:"questionId"`
	Value      domain.AnswerValue `json:"value"`
}

func newQuizSessionResponse(snap *domain.QuizSnapshot) quizSessionResponse {
	resp := quizSessionResponse{
		SessionID:    snap.SessionID,
		ResumeToken:  snap.ResumeToken,
		Questions:    snap.Questions,
		CurrentIndex: snap.CurrentIndex,
		IsComplete:   snap.IsComplete,
		Feedback:     snap.Feedback,
	}
	for _, id := range slices.Sorted(maps.Keys(snap.Answers)) {
		resp.Answers = append(resp.Answers, answerEntry{QuestionID: id, Value: snap.Answers[id]})
	}
	if snap.Feedback != nil {
		resp.CoursePrompts = snap.Feedback.CoursePrompts
	}
	return resp
}

func (r quizSessionResponse) snapshot() *domain.QuizSnapshot {
	snap := &domain.QuizSnapshot{
		SessionID:    r.SessionID,
		ResumeToken:  r.ResumeToken,
		Questions:    r.Questions,
		CurrentIndex: r.CurrentIndex,
		IsComplete:   r.IsComplete,
		Feedback:     r.Feedback,
	}
	if len(r.Answers) > 0 {
		snap.Answers = make(domain.Answers, len(r.Answers))
		for _, a := range r.Answers {
			snap.Answers[a.QuestionID] = a.Value
		}
	}
	return snap
}

type completeRequest struct {
	Complete bool `json:"complete"`
}

type completeResponse struct {
	CompletedAt time.Time `json:"completedAt"`
}

// answerRequest either upserts an answer or, with UpdateIndex set, moves the position.
type answerRequest struct {
	SessionID   string         `json:"sessionId"`
	QuestionID  string         `json:"questionId"`
	Value       map[string]any `json:"value"`
	UpdateIndex *int           `json:"updateIndex"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type feedbackRequest struct {
	SessionID string `json:"sessionId"`
}

type feedbackResponse struct {
	Feedback      string         `json:"feedback"`
	CoursePrompts []string       `json:"coursePrompts"`
	Fallback      bool           `json:"fallback,omitempty"`
	Profile       domain.Profile `json:"profile"`
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SurveyID == "" {
		writeError(w, http.StatusBadRequest, "surveyId is required")
		return
	}
	snap, err := s.Quiz.Create(r.Context(), req.SurveyID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuizSessionResponse(snap))
}

func (s *Server) fetchQuiz(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Quiz.FetchByResumeToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQuizSessionResponse(snap))
}

func (s *Server) completeQuiz(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decode(w, r, &req) {
		return
	}
	if !req.Complete {
		writeError(w, http.StatusBadRequest, "only {\"complete\": true} is supported")
		return
	}
	at, err := s.Quiz.MarkComplete(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, completeResponse{CompletedAt: at})
}

func (s *Server) saveAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	if req.UpdateIndex != nil {
		if err := s.Quiz.UpdateIndex(r.Context(), req.SessionID, *req.UpdateIndex); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
		return
	}

	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}
	value, err := quiz.DecodeAnswer(req.Value)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Quiz.SaveAnswer(r.Context(), req.SessionID, req.QuestionID, value); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	res, err := s.Quiz.Feedback(r.Context(), req.SessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackResponse{
		Feedback:      res.Feedback.Text,
		CoursePrompts: res.Feedback.CoursePrompts,
		Fallback:      res.Feedback.Fallback,
		Profile:       res.Profile,
	})
}
