package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// GraphSource retrieves decision graphs by artifact ID.
// This allows the storage layer (YAML files, Loam, Memory) to be decoupled.
type GraphSource interface {
	// Graph returns the graph with the given ID, or domain.ErrGraphNotFound.
	Graph(ctx context.Context, id string) (*domain.Graph, error)

	// ListGraphs returns the IDs of every available graph.
	ListGraphs(ctx context.Context) ([]string, error)
}

// SurveySource retrieves linear surveys by ID.
type SurveySource interface {
	// Survey returns the survey with the given ID, or domain.ErrSurveyNotFound.
	Survey(ctx context.Context, id string) (*domain.Survey, error)

	// ListSurveys returns the IDs of every available survey.
	ListSurveys(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed artifact.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
