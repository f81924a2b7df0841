package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/engine"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/session"
)

const graphURIPrefix = "wayfinder://graphs/"

// SessionResponse is returned by every tool that moves a session.
type SessionResponse struct {
	SessionID string       `json:"sessionId"`
	View      session.View `json:"view"`
}

// ValidationResponse is returned by validate_graph.
type ValidationResponse struct {
	GraphID  string   `json:"graphId"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}

// Server exposes tree traversal to MCP clients.
type Server struct {
	sessions  *session.Manager
	graphs    ports.GraphSource
	mcpServer *server.MCPServer
	logger    *slog.Logger
	newID     func() string
}

type Option func(*config)

type config struct {
	version string
	logger  *slog.Logger
	newID   func() string
}

// WithVersion sets the version reported during the MCP handshake.
func WithVersion(v string) Option {
	return func(c *config) {
		c.version = v
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithIDGenerator overrides uuid.NewString for sessions started without an id.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		c.newID = fn
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, graphs ports.GraphSource, opts ...Option) *Server {
	cfg := config{version: "dev", logger: logging.NewNop(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{
		sessions:  sessions,
		graphs:    graphs,
		mcpServer: server.NewMCPServer("wayfinder-mcp", strings.TrimSpace(cfg.version)),
		logger:    cfg.logger,
		newID:     cfg.newID,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer exposes the underlying server, for embedding in other transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_graphs",
		mcp.WithDescription("List the ids of every available decision graph."),
	), s.handleListGraphs)

	s.mcpServer.AddTool(mcp.NewTool("validate_graph",
		mcp.WithDescription("Check a graph for structural problems (dangling edges, unreachable nodes, dead ends)."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Graph id")),
	), s.handleValidateGraph)

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a traversal at the start node of a graph. Returns the session id and the first view."),
		mcp.WithString("graph_id", mcp.Required(), mcp.Description("Graph id")),
		mcp.WithString("session_id", mcp.Description("Session id to use (optional, generated when omitted)")),
		mcp.WithString("user_name", mcp.Description("Name substituted into node text (optional)")),
	), s.handleStartSession)

	s.mcpServer.AddTool(mcp.NewTool("select_option",
		mcp.WithDescription("Answer the current node with one of its option keys and move along that edge."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("option_key", mcp.Required(), mcp.Description("Option key from the current view")),
	), s.handleSelectOption)

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previous node. The answer given there stays selected."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), s.sessionTool(s.sessions.Back))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Clear every answer and return to the start node."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), s.sessionTool(s.sessions.Reset))

	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Render the current node of a session without changing it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), s.sessionTool(s.sessions.View))
}

func (s *Server) handleListGraphs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.graphs.ListGraphs(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return jsonResult(ids)
}

func (s *Server) handleValidateGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphID, err := request.RequireString("graph_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.graphs.Graph(ctx, graphID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	problems := engine.Validate(g)
	return jsonResult(ValidationResponse{
		GraphID:  graphID,
		Valid:    len(problems) == 0,
		Problems: append([]string{}, problems...),
	})
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphID, err := request.RequireString("graph_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		sessionID = s.newID()
	}
	view, err := s.sessions.Start(ctx, sessionID, graphID, request.GetString("user_name", ""))
	if err != nil {
		return s.toolError(err)
	}
	return jsonResult(SessionResponse{SessionID: sessionID, View: view})
}

func (s *Server) handleSelectOption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	optionKey, err := request.RequireString("option_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	current, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return s.toolError(err)
	}
	if !slices.ContainsFunc(current.Options, func(e domain.Edge) bool { return e.OptionKey == optionKey }) {
		keys := make([]string, 0, len(current.Options))
		for _, e := range current.Options {
			keys = append(keys, e.OptionKey)
		}
		return mcp.NewToolResultError(fmt.Sprintf("unknown option %q at node %q (valid: %s)",
			optionKey, current.CurrentNodeID, strings.Join(keys, ", "))), nil
	}

	view, err := s.sessions.Select(ctx, sessionID, optionKey)
	if err != nil {
		return s.toolError(err)
	}
	return jsonResult(SessionResponse{SessionID: sessionID, View: view})
}

// sessionTool adapts a Manager operation keyed by session id into a tool handler.
func (s *Server) sessionTool(op func(context.Context, string) (session.View, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := op(ctx, sessionID)
		if err != nil {
			return s.toolError(err)
		}
		return jsonResult(SessionResponse{SessionID: sessionID, View: view})
	}
}

// toolError reports domain failures to the model and logs everything else.
func (s *Server) toolError(err error) (*mcp.CallToolResult, error) {
	if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrGraphNotFound) {
		s.logger.Error("MCP tool failed", "err", err)
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(graphURIPrefix+"{id}", "Decision graph",
		mcp.WithTemplateDescription("Nodes and edges of a decision graph"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	graphID := strings.TrimPrefix(uri, graphURIPrefix)
	if graphID == "" || graphID == uri {
		return nil, fmt.Errorf("invalid graph uri %q", uri)
	}
	g, err := s.graphs.Graph(ctx, graphID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
