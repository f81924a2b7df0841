package wayfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	loamAdapter "github.com/aretw0/wayfinder/pkg/adapters/loam"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/session"
)

// Version is overridden at build time with -ldflags "-X github.com/aretw0/wayfinder.Version=...".
var Version = "dev"

// Engine is the high-level entry point for the library.
// It pairs a graph source with a session manager.
type Engine struct {
	graphs   ports.GraphSource
	surveys  ports.SurveySource
	sessions *session.Manager

	store  ports.StateStore
	locker ports.DistributedLocker
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	Name   string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraphSource injects a custom source, bypassing content discovery.
func WithGraphSource(src ports.GraphSource) Option {
	return func(e *Engine) {
		e.graphs = src
	}
}

// WithStore sets where sessions are persisted. Defaults to an in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes session access across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine over the content at repoPath.
//
// An empty repoPath uses the bundled content. A directory holding graphs/ or surveys/
// is read as a YAML/JSON catalog; any other directory is read as a Markdown tree
// through Loam. WithGraphSource skips discovery entirely.
func New(ctx context.Context, repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.graphs == nil {
		graphs, surveys, err := OpenContent(ctx, repoPath, eng.logger)
		if err != nil {
			return nil, err
		}
		eng.graphs, eng.surveys = graphs, surveys
	} else if s, ok := eng.graphs.(ports.SurveySource); ok {
		eng.surveys = s
	}

	if repoPath != "" {
		if abs, err := filepath.Abs(repoPath); err == nil {
			eng.Name = filepath.Base(abs)
			eng.logger = eng.logger.With("content", eng.Name)
		}
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	managerOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithManagerHooks(eng.hooks),
	}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, eng.graphs, managerOpts...)
	return eng, nil
}

// OpenContent discovers the graph and survey sources at path. Surveys are nil for
// Markdown trees. Artifacts that fail to load are logged and skipped.
func OpenContent(ctx context.Context, path string, logger *slog.Logger) (ports.GraphSource, ports.SurveySource, error) {
	if path == "" {
		c, err := content.Catalog(ctx, file.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("bundled content: %w", err)
		}
		return c, c, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid content path: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("content path %s is not a directory", path)
	}

	if isCatalogDir(path) {
		c, err := file.OpenDir(ctx, path, file.WithLogger(logger))
		if err != nil {
			logger.Warn("some content failed to load", "dir", path, "err", err)
		}
		return c, c, nil
	}

	l, err := loamAdapter.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return l, nil, nil
}

func isCatalogDir(path string) bool {
	for _, sub := range []string{"graphs", "surveys"} {
		if info, err := os.Stat(filepath.Join(path, sub)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// Graphs returns the graph source.
func (e *Engine) Graphs() ports.GraphSource {
	return e.graphs
}

// Surveys returns the survey source, or nil when the content has none.
func (e *Engine) Surveys() ports.SurveySource {
	return e.surveys
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Validate loads graphID and reports its structural problems.
func (e *Engine) Validate(ctx context.Context, graphID string) ([]string, error) {
	g, err := e.graphs.Graph(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return engine.Validate(g), nil
}

// Start begins a traversal of graphID under sessionID.
func (e *Engine) Start(ctx context.Context, sessionID, graphID, userName string) (session.View, error) {
	return e.sessions.Start(ctx, sessionID, graphID, userName)
}

// Select answers the current node of sessionID.
func (e *Engine) Select(ctx context.Context, sessionID, optionKey string) (session.View, error) {
	return e.sessions.Select(ctx, sessionID, optionKey)
}

func (e *Engine) Back(ctx context.Context, sessionID string) (session.View, error) {
	return e.sessions.Back(ctx, sessionID)
}

func (e *Engine) Reset(ctx context.Context, sessionID string) (session.View, error) {
	return e.sessions.Reset(ctx, sessionID)
}

// Watch forwards change notifications from the content source, when it supports them.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := e.graphs.(ports.Watchable)
	if !ok {
		return nil, errors.New("content source does not support watching")
	}
	return w.Watch(ctx)
}
