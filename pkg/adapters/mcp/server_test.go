package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/dsl"
	"github.com/aretw0/wayfinder/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	g := dsl.New("demo").
		Add("start").Question("Ciao [Nome]?").Option("go", "Avanti", "end").
		Add("end").Result("Fine").
		Builder().MustBuild()
	graphs := memory.NewGraphs(g)
	return NewServer(session.NewManager(memory.NewStore(), graphs), graphs,
		WithIDGenerator(func() string { return "s1" }))
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func decodeSession(t *testing.T, res *mcp.CallToolResult) SessionResponse {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var out SessionResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	return out
}

func TestTraversalTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleStartSession(ctx, call(map[string]any{"graph_id": "demo", "user_name": "Luca"}))
	require.NoError(t, err)
	started := decodeSession(t, res)
	assert.Equal(t, "s1", started.SessionID)
	assert.Equal(t, "Ciao Luca?", started.View.Prompt)

	res, err = s.handleSelectOption(ctx, call(map[string]any{"session_id": "s1", "option_key": "go"}))
	require.NoError(t, err)
	moved := decodeSession(t, res)
	assert.True(t, moved.View.IsTerminal)

	res, err = s.sessionTool(s.sessions.Back)(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	back := decodeSession(t, res)
	assert.Equal(t, "start", back.View.CurrentNodeID)
	assert.Equal(t, "go", back.View.SelectedOption)

	res, err = s.sessionTool(s.sessions.Reset)(ctx, call(map[string]any{"session_id": "s1"}))
	require.NoError(t, err)
	assert.Empty(t, decodeSession(t, res).View.Answers)
}

func TestSelectOptionRejectsUnknownKey(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleStartSession(ctx, call(map[string]any{"graph_id": "demo"}))
	require.NoError(t, err)

	res, err := s.handleSelectOption(ctx, call(map[string]any{"session_id": "s1", "option_key": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "valid: go")
}

func TestToolErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.sessionTool(s.sessions.View)(ctx, call(map[string]any{"session_id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleStartSession(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "graph_id is required")
}

func TestValidateAndListGraphs(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListGraphs(ctx, call(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["demo"]`, text(t, res))

	res, err = s.handleValidateGraph(ctx, call(map[string]any{"graph_id": "demo"}))
	require.NoError(t, err)
	var v ValidationResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &v))
	assert.True(t, v.Valid)
	assert.Empty(t, v.Problems)
}

func TestReadGraphResource(t *testing.T) {
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = graphURIPrefix + "demo"
	contents, err := s.readGraph(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var g domain.Graph
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &g))
	assert.Equal(t, "start", g.StartNodeID)

	req.Params.URI = graphURIPrefix + "missing"
	_, err = s.readGraph(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrGraphNotFound)
}
