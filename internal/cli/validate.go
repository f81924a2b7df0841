package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/wayfinder/pkg/adapters/file"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Validate checks one graph (by id or by artifact path) or, with an empty target,
// every graph in graphs. Problems are written to out. It reports whether all passed.
func Validate(ctx context.Context, out io.Writer, graphs ports.GraphSource, target string) (bool, error) {
	if target != "" {
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			return validateFile(out, target)
		}
	}

	ok := true
	// Catalogs drop artifacts that fail to load; re-reading surfaces those errors.
	if r, isReloader := graphs.(interface{ Reload(context.Context) error }); isReloader && target == "" {
		if err := r.Reload(ctx); err != nil {
			fmt.Fprintf(out, "❌ load errors:\n  %v\n", err)
			ok = false
		}
	}

	ids := []string{target}
	if target == "" {
		var err error
		if ids, err = graphs.ListGraphs(ctx); err != nil {
			return false, err
		}
	}
	for _, id := range ids {
		g, err := graphs.Graph(ctx, id)
		if err != nil {
			return false, err
		}
		ok = report(out, g.ID, engine.Validate(g)) && ok
	}
	return ok, nil
}

func validateFile(out io.Writer, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	g, err := file.ParseGraph(filepath.Base(path), data)
	if err != nil {
		return false, err
	}
	return report(out, g.ID, engine.Validate(g)), nil
}

func report(out io.Writer, graphID string, problems []string) bool {
	if len(problems) == 0 {
		fmt.Fprintf(out, "✅ %s\n", graphID)
		return true
	}
	fmt.Fprintf(out, "❌ %s\n", graphID)
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	return false
}
