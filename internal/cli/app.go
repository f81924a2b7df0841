package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/metrics"
	"github.com/aretw0/wayfinder/pkg/adapters/anthropic"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/adapters/sqlite"
	"github.com/aretw0/wayfinder/pkg/persistence/middleware"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	// ContentDir overrides the configured content directory.
	ContentDir string
	Debug      bool
	// Durable replaces the memory store with the file store, for commands that
	// outlive a single process.
	Durable bool
}

// App holds what a command needs: configuration, logger, engine and store.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Engine *wayfinder.Engine
	Store  ports.StateStore

	closers []func() error
}

// NewApp loads the configuration and wires the engine to the configured store.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.ContentDir != "" {
		cfg.ContentDir = opts.ContentDir
	}
	if opts.Durable && cfg.Store == config.StoreMemory {
		cfg.Store = config.StoreFile
	}

	app := &App{
		Config: cfg,
		Logger: newLogger(cfg.LogLevel, opts.Debug),
	}

	store, locker, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}
	store, err = app.protect(store)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Store = store

	hooks := metrics.TreeHooks()
	if opts.Debug {
		hooks = metrics.Chain(hooks, createDebugHooks(app.Logger))
	}
	app.Engine, err = wayfinder.New(ctx, cfg.ContentDir,
		wayfinder.WithStore(store),
		wayfinder.WithLocker(locker),
		wayfinder.WithLifecycleHooks(hooks),
		wayfinder.WithLogger(app.Logger),
	)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) openStore(ctx context.Context) (ports.StateStore, ports.DistributedLocker, error) {
	switch a.Config.Store {
	case config.StoreFile:
		return file.New(a.Config.StateDir), nil, nil
	case config.StoreRedis:
		rc := a.Config.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithTTL(a.Config.SessionTTL))
		a.closers = append(a.closers, store.Close)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = a.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", rc.Addr, err)
		}
		return store, redis.NewLocker(store.Client(), store.Prefix()), nil
	default:
		return memory.NewStore(), nil, nil
	}
}

// protect wraps the store with name masking and encryption when configured.
func (a *App) protect(store ports.StateStore) (ports.StateStore, error) {
	var mws []middleware.Middleware
	p := a.Config.Privacy
	if p.MaskNames {
		mws = append(mws, middleware.NewPIIMiddleware())
	}
	if p.EncryptionKey != "" {
		active, err := decodeKey(p.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("WAYFINDER_ENCRYPTION_KEY: %w", err)
		}
		cfg := middleware.EncryptionConfig{ActiveKey: active}
		for i, k := range p.FallbackKeys {
			key, err := decodeKey(k)
			if err != nil {
				return nil, fmt.Errorf("fallback key %d: %w", i, err)
			}
			cfg.FallbackKeys = append(cfg.FallbackKeys, key)
		}
		enc, err := middleware.NewEncryptionMiddleware(cfg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	if len(mws) == 0 {
		return store, nil
	}
	a.Logger.Debug("state store protected", "mask_names", p.MaskNames, "encrypted", p.EncryptionKey != "")
	return middleware.Chain(store, mws...), nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 key: %w", err)
	}
	return key, nil
}

// QuizService builds the survey service on the configured repository and seeds it
// with every survey the content provides.
func (a *App) QuizService(ctx context.Context) (*quiz.Service, error) {
	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.seedSurveys(ctx, repo); err != nil {
		return nil, err
	}

	gen := anthropic.New(a.Config.Feedback.APIKey,
		anthropic.WithModel(a.Config.Feedback.Model),
		anthropic.WithLogger(a.Logger),
	)
	if !gen.Available() {
		a.Logger.Info("ANTHROPIC_API_KEY not set, feedback uses the fallback text")
	}
	return quiz.NewService(repo,
		quiz.WithGenerator(gen),
		quiz.WithServiceLogger(a.Logger),
		quiz.WithServiceHooks(metrics.QuizHooks()),
	), nil
}

func (a *App) openRepository(ctx context.Context) (ports.SurveyRepository, error) {
	dsn := a.Config.Database
	if dsn == "" {
		return memory.NewRepository(), nil
	}

	var (
		repo *sqlite.Repository
		err  error
	)
	if strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		repo, err = sqlite.Open(ctx, dsn)
	} else {
		repo, err = sqlite.OpenFile(ctx, dsn)
	}
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, repo.Close)
	return repo, nil
}

func (a *App) seedSurveys(ctx context.Context, repo ports.SurveyRepository) error {
	src := a.Engine.Surveys()
	if src == nil {
		return nil
	}
	ids, err := src.ListSurveys(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s, err := src.Survey(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.SaveSurvey(ctx, s); err != nil {
			return fmt.Errorf("seed survey %q: %w", id, err)
		}
	}
	a.Logger.Debug("surveys seeded", "count", len(ids))
	return nil
}

// Close releases every connection opened by the app.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
