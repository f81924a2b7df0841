package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Graphs implements ports.GraphSource over graphs held in memory.
// It is handy for tests and for catalogs built at startup.
type Graphs struct {
	mu     sync.RWMutex
	graphs map[string]*domain.Graph
}

// NewGraphs registers the given graphs by their ID.
func NewGraphs(graphs ...*domain.Graph) *Graphs {
	g := &Graphs{graphs: make(map[string]*domain.Graph)}
	for _, graph := range graphs {
		g.Put(graph)
	}
	return g
}

// Put adds or replaces a graph.
func (g *Graphs) Put(graph *domain.Graph) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.graphs[graph.ID] = graph
}

// Graph returns the graph registered under id.
func (g *Graphs) Graph(ctx context.Context, id string) (*domain.Graph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	graph, ok := g.graphs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGraphNotFound, id)
	}
	return graph, nil
}

// ListGraphs returns all registered IDs in lexical order.
func (g *Graphs) ListGraphs(ctx context.Context) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]string, 0, len(g.graphs))
	for id := range g.graphs {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}

// Surveys implements ports.SurveySource over surveys held in memory.
type Surveys struct {
	mu      sync.RWMutex
	surveys map[string]*domain.Survey
}

// NewSurveys registers the given surveys by their ID.
func NewSurveys(surveys ...*domain.Survey) *Surveys {
	s := &Surveys{surveys: make(map[string]*domain.Survey)}
	for _, survey := range surveys {
		s.surveys[survey.ID] = survey
	}
	return s
}

// Survey returns the survey registered under id.
func (s *Surveys) Survey(ctx context.Context, id string) (*domain.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	survey, ok := s.surveys[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSurveyNotFound, id)
	}
	return survey, nil
}

// ListSurveys returns all registered IDs in lexical order.
func (s *Surveys) ListSurveys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.surveys))
	for id := range s.surveys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
