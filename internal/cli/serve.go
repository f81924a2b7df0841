package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	api "github.com/aretw0/wayfinder/pkg/adapters/http"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr string
	// Watch reloads content on change and streams the changes at /events.
	Watch           bool
	ShutdownTimeout time.Duration
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, app *App, opts ServeOptions) error {
	if opts.Addr == "" {
		opts.Addr = app.Config.Addr
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	logger := app.Logger

	svc, err := app.QuizService(ctx)
	if err != nil {
		return fmt.Errorf("quiz service: %w", err)
	}

	handlerOpts := []api.Option{
		api.WithQuiz(svc),
		api.WithLogger(logger),
	}
	if opts.Watch {
		w, ok := app.Engine.Graphs().(ports.Watchable)
		if !ok || app.Config.ContentDir == "" {
			return errors.New("--watch needs a content directory (--content or WAYFINDER_CONTENT_DIR)")
		}
		handlerOpts = append(handlerOpts, api.WithWatcher(w))
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           api.NewHandler(app.Engine.Sessions(), app.Engine.Graphs(), handlerOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting Wayfinder Server",
			"addr", srv.Addr,
			"store", app.Config.Store,
			"content", contentLabel(app.Config.ContentDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Start shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "timeout", opts.ShutdownTimeout, "err", err)
		if err := srv.Close(); err != nil {
			return fmt.Errorf("killing server: %w", err)
		}
	}
	logger.Info("Wayfinder Server stopped gracefully")
	return nil
}

func contentLabel(dir string) string {
	if dir == "" {
		return "bundled"
	}
	return dir
}
