package wayfinder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/content"
	"github.com/aretw0/wayfinder/pkg/domain"
)

func TestNew_BundledContent(t *testing.T) {
	ctx := context.Background()
	eng, err := wayfinder.New(ctx, "")
	require.NoError(t, err)

	require.NotNil(t, eng.Surveys())
	ids, err := eng.Graphs().ListGraphs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, content.PermitGraphID)

	problems, err := eng.Validate(ctx, content.PermitGraphID)
	require.NoError(t, err)
	assert.Empty(t, problems)

	_, err = eng.Validate(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)

	_, err = eng.Watch(ctx)
	assert.Error(t, err, "embedded content cannot be watched")
}

func TestNew_CatalogDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "graphs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graphs", "tiny.yaml"), []byte(`
id: tiny
start_node_id: start
nodes:
  start: {kind: question, text: "Pronto?"}
  done: {kind: result, title: "Fatto"}
edges:
  - {from: start, to: done, label: "Sì", option_key: "yes"}
`), 0o644))

	ctx := context.Background()
	eng, err := wayfinder.New(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), eng.Name)

	view, err := eng.Start(ctx, "s", "tiny", "")
	require.NoError(t, err)
	assert.Equal(t, "Pronto?", view.Prompt)

	view, err = eng.Select(ctx, "s", "yes")
	require.NoError(t, err)
	assert.True(t, view.IsTerminal)

	view, err = eng.Reset(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "start", view.CurrentNodeID)
	assert.Empty(t, view.Answers)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := wayfinder.New(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
