package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrGraphNotFound is returned when no graph artifact exists for an ID.
var ErrGraphNotFound = errors.New("graph not found")

// ErrNodeNotFound is returned when a node id does not exist in the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrSurveyNotFound is returned for unknown or inactive surveys.
var ErrSurveyNotFound = errors.New("survey not found")

// ErrQuizNotCompleted is returned when feedback is requested before completion.
var ErrQuizNotCompleted = errors.New("quiz not completed")

// ErrNotHydrated is returned when a session is mutated before its persisted state was loaded.
var ErrNotHydrated = errors.New("session not hydrated")
