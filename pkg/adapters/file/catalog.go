package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

const (
	graphsDir  = "graphs"
	surveysDir = "surveys"
)

// Catalog serves graphs and surveys read from a content tree:
//
//	graphs/<id>.yaml|yml|json
//	surveys/<id>.yaml|yml|json
//
// Invalid artifacts are skipped and reported by Reload; the rest stay available.
// Catalog implements ports.GraphSource, ports.SurveySource and, when backed by a
// directory, ports.Watchable.
type Catalog struct {
	fsys   fs.FS
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	graphs  map[string]*domain.Graph
	surveys map[string]*domain.Survey
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the logger for skipped artifacts.
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// NewCatalog reads content from fsys, such as an embed.FS. Call Reload before use.
func NewCatalog(fsys fs.FS, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		fsys:    fsys,
		logger:  logging.NewNop(),
		graphs:  make(map[string]*domain.Graph),
		surveys: make(map[string]*domain.Survey),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenDir loads a content directory and enables Watch.
func OpenDir(ctx context.Context, dir string, opts ...CatalogOption) (*Catalog, error) {
	c := NewCatalog(os.DirFS(dir), opts...)
	c.dir = dir
	return c, c.Reload(ctx)
}

// Reload re-reads every artifact. Artifacts that fail to parse or validate are
// skipped; their errors are joined into the returned error.
func (c *Catalog) Reload(ctx context.Context) error {
	var errs []error
	graphs := make(map[string]*domain.Graph)
	surveys := make(map[string]*domain.Survey)

	err := c.each(graphsDir, func(name string, data []byte) {
		g, err := ParseGraph(name, data)
		if err == nil {
			err = engine.Check(g)
		}
		if err != nil {
			c.logger.Warn("skipping graph", "file", name, "err", err)
			errs = append(errs, err)
			return
		}
		graphs[g.ID] = g
	})
	if err != nil {
		return err
	}

	err = c.each(surveysDir, func(name string, data []byte) {
		s, err := ParseSurvey(name, data)
		if err == nil {
			if problems, _ := quiz.Lint(s); len(problems) > 0 {
				err = fmt.Errorf("survey %q: %v", s.ID, problems)
			}
		}
		if err != nil {
			c.logger.Warn("skipping survey", "file", name, "err", err)
			errs = append(errs, err)
			return
		}
		surveys[s.ID] = s
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.graphs = graphs
	c.surveys = surveys
	c.mu.Unlock()

	c.logger.Debug("catalog loaded", "graphs", len(graphs), "surveys", len(surveys))
	return errors.Join(errs...)
}

func (c *Catalog) each(dir string, fn func(name string, data []byte)) error {
	entries, err := fs.ReadDir(c.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch path.Ext(e.Name()) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(c.fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		fn(name, data)
	}
	return nil
}

// Graph returns the graph with id, or domain.ErrGraphNotFound.
func (c *Catalog) Graph(ctx context.Context, id string) (*domain.Graph, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.graphs[id]
	if !ok {
		return nil, fmt.Errorf("graph %q: %w", id, domain.ErrGraphNotFound)
	}
	return g, nil
}

// ListGraphs returns graph ids in lexical order.
func (c *Catalog) ListGraphs(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.graphs), nil
}

// Survey returns the survey with id, or domain.ErrSurveyNotFound.
func (c *Catalog) Survey(ctx context.Context, id string) (*domain.Survey, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.surveys[id]
	if !ok {
		return nil, fmt.Errorf("survey %q: %w", id, domain.ErrSurveyNotFound)
	}
	return s, nil
}

// ListSurveys returns survey ids in lexical order.
func (c *Catalog) ListSurveys(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.surveys), nil
}

// Watch reloads the catalog whenever a file changes and forwards the changed path.
// It requires a catalog opened with OpenDir.
func (c *Catalog) Watch(ctx context.Context) (<-chan string, error) {
	if c.dir == "" {
		return nil, errors.New("catalog is not backed by a directory")
	}
	events, err := config.NewWatcher(c.dir, config.WithWatcherLogger(c.logger)).Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		for name := range events {
			if err := c.Reload(ctx); err != nil {
				c.logger.Warn("catalog reload finished with errors", "trigger", name, "err", err)
			}
			select {
			case out <- name:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
