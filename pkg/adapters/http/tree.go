package http

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/session"
)

type graphResponse struct {
	Graph    *domain.Graph `json:"graph"`
	Valid    bool          `json:"valid"`
	Problems []string      `json:"problems"`
}

type startRequest struct {
	UserName string `json:"userName"`
}

type startResponse struct {
	SessionID string       `json:"sessionId"`
	View      session.View `json:"view"`
}

type selectRequest struct {
	OptionKey string `json:"optionKey"`
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Graphs.ListGraphs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Graphs.Graph(r.Context(), chi.URLParam(r, "graphID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	problems := engine.Validate(g)
	writeJSON(w, http.StatusOK, graphResponse{
		Graph:    g,
		Valid:    len(problems) == 0,
		Problems: append([]string{}, problems...),
	})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	sessionID := s.newID()
	view, err := s.Sessions.Start(r.Context(), sessionID, chi.URLParam(r, "graphID"), req.UserName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, startResponse{SessionID: sessionID, View: view})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Sessions.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectOption(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decode(w, r, &req) {
		return
	}
	if req.OptionKey == "" {
		writeError(w, http.StatusBadRequest, "optionKey is required")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	current, err := s.Sessions.View(r.Context(), sessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !slices.ContainsFunc(current.Options, func(e domain.Edge) bool { return e.OptionKey == req.OptionKey }) {
		writeError(w, http.StatusBadRequest, "unknown option "+req.OptionKey+" at node "+current.CurrentNodeID)
		return
	}

	s.transition(w, r, sessionID, func() (session.View, error) {
		return s.Sessions.Select(r.Context(), sessionID, req.OptionKey)
	})
}

func (s *Server) goBack(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s.transition(w, r, sessionID, func() (session.View, error) {
		return s.Sessions.Back(r.Context(), sessionID)
	})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s.transition(w, r, sessionID, func() (session.View, error) {
		return s.Sessions.Reset(r.Context(), sessionID)
	})
}

// transition applies fn, answers with the new view and pushes it to SSE subscribers.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, sessionID string, fn func() (session.View, error)) {
	view, err := fn()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.Streams.Subscribers(sessionID) > 0 {
		if data, err := json.Marshal(view); err == nil {
			s.Streams.Broadcast(sessionID, string(data))
		}
	}
	writeJSON(w, http.StatusOK, view)
}
