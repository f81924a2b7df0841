package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
)

const tinyGraph = `
title: Tiny
start_node_id: start
nodes:
  start:
    kind: question
    text: "[Nome], continue?"
  done:
    kind: result
    title: Done
    intro: Bye
edges:
  - {from: start, to: done, label: Yes, option_key: yes}
`

const brokenGraph = `
start_node_id: nowhere
nodes:
  a: {kind: result}
`

const tinySurvey = `
id: s1
title: One
active: true
questions:
  - id: q1
    type: yes_no
    text: Ok?
    options:
      - {id: yes, label: Si, value: "true"}
      - {id: no, label: "No", value: "false"}
  - id: q2
    type: text
    text: Why?
    show_condition: {question_id: q1, operator: equals, value: false}
`

func TestCatalog_LoadsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"graphs/tiny.yaml":   {Data: []byte(tinyGraph)},
		"graphs/broken.yaml": {Data: []byte(brokenGraph)},
		"graphs/readme.txt":  {Data: []byte("ignored")},
		"surveys/s1.yml":     {Data: []byte(tinySurvey)},
	}
	c := file.NewCatalog(fsys)
	err := c.Reload(context.Background())
	var verr *engine.ValidationError
	require.ErrorAs(t, err, &verr, "broken graph is reported")

	ids, err := c.ListGraphs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny"}, ids, "valid graphs stay available")

	g, err := c.Graph(context.Background(), "tiny")
	require.NoError(t, err)
	assert.Equal(t, "start", g.Nodes["start"].ID, "ids come from map keys")
	assert.Equal(t, "Tiny", g.Title)

	_, err = c.Graph(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)

	s, err := c.Survey(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Questions[1].Order)
	assert.Equal(t, "s1", s.Questions[1].SurveyID)
	assert.Equal(t, false, s.Questions[1].ShowCondition.Value)

	_, err = c.Survey(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSurveyNotFound)
}

func TestParseGraph_JSON(t *testing.T) {
	g, err := file.ParseGraph("graphs/j.json", []byte(`{"start_node_id":"a","nodes":{"a":{"kind":"result"}},"edges":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "j", g.ID)
	assert.NoError(t, engine.Check(g))

	_, err = file.ParseGraph("graphs/x.toml", []byte(""))
	assert.Error(t, err)
}

func TestCatalog_WatchReloads(t *testing.T) {
	dir := testutils.WriteTree(t, map[string]string{"graphs/tiny.yaml": tinyGraph})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := file.OpenDir(ctx, dir)
	require.NoError(t, err)

	changes, err := c.Watch(ctx)
	require.NoError(t, err)

	renamed := []byte(tinyGraph + "id: tiny2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "graphs", "second.yaml"), renamed, 0o644))

	select {
	case name := <-changes:
		assert.Equal(t, "graphs/second.yaml", name)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	ids, err := c.ListGraphs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiny", "tiny2"}, ids)
}

func TestCatalog_WatchNeedsDirectory(t *testing.T) {
	_, err := file.NewCatalog(fstest.MapFS{}).Watch(context.Background())
	assert.Error(t, err)
}
