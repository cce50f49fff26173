// Package mcp exposes the PathRAG control surface as an MCP server so
// agent frameworks can drive a diagnostic session as a set of tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/akilivoice/pathrag"
	"github.com/akilivoice/pathrag/internal/logging"
)

// ContextResponse is the structured output of the get_voice_context tool.
type ContextResponse struct {
	SessionID    string `json:"session_id" jsonschema_description:"The session the context belongs to"`
	VoiceContext string `json:"voice_context" jsonschema_description:"The briefing text for the voice agent's next turn"`
}

// Server wraps a pathrag.Service and exposes it as an MCP server.
type Server struct {
	service   *pathrag.Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(service *pathrag.Service, opts ...Option) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("pathrag-mcp", pathrag.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: create_session
	createTool := mcp.NewTool("create_session",
		mcp.WithDescription("Start a new router troubleshooting session. Optionally pin the router vendor up front."),
		mcp.WithString("vendor_id", mcp.Description("Router vendor id (tplink, netgear, dlink, asus); omit to detect from conversation")),
		mcp.WithOutputSchema[pathrag.StateSnapshot](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreate))

	// TOOL: process_utterance
	processTool := mcp.NewTool("process_utterance",
		mcp.WithDescription("Resolve one user utterance against the session's current diagnostic step and apply the transition."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by create_session")),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("What the user said")),
		mcp.WithOutputSchema[pathrag.TransitionOutcome](),
	)
	s.mcpServer.AddTool(processTool, mcp.NewStructuredToolHandler(s.handleProcess))

	// TOOL: get_session
	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Get the full state of a troubleshooting session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[pathrag.StateSnapshot](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: get_voice_context
	contextTool := mcp.NewTool("get_voice_context",
		mcp.WithDescription("Get the next-turn briefing for the voice agent: current task, expected answers, and conversation rules."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[ContextResponse](),
	)
	s.mcpServer.AddTool(contextTool, mcp.NewStructuredToolHandler(s.handleGetContext))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full diagnostic graph definition for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.service.Graph().List())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("graph encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (pathrag.StateSnapshot, error) {
	vendorID, _ := args["vendor_id"].(string)

	state, err := s.service.Create(ctx, vendorID)
	if err != nil {
		return pathrag.StateSnapshot{}, fmt.Errorf("create failed: %w", err)
	}
	return *state, nil
}

func (s *Server) handleProcess(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (pathrag.TransitionOutcome, error) {
	sessionID, _ := args["session_id"].(string)
	transcript, _ := args["transcript"].(string)
	if sessionID == "" || transcript == "" {
		return pathrag.TransitionOutcome{}, fmt.Errorf("session_id and transcript are required")
	}

	outcome, err := s.service.Process(ctx, sessionID, transcript)
	if err != nil {
		s.logger.Warn("MCP process rejected", "session_id", sessionID, "err", err)
		return pathrag.TransitionOutcome{}, fmt.Errorf("process failed: %w", err)
	}
	return *outcome, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (pathrag.StateSnapshot, error) {
	sessionID, _ := args["session_id"].(string)

	state, err := s.service.GetState(ctx, sessionID)
	if err != nil {
		return pathrag.StateSnapshot{}, fmt.Errorf("get state failed: %w", err)
	}
	return *state, nil
}

func (s *Server) handleGetContext(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ContextResponse, error) {
	sessionID, _ := args["session_id"].(string)

	voiceCtx, err := s.service.GetContext(ctx, sessionID)
	if err != nil {
		return ContextResponse{}, fmt.Errorf("get context failed: %w", err)
	}
	return ContextResponse{SessionID: sessionID, VoiceContext: voiceCtx}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: pathrag://graph
	s.mcpServer.AddResource(mcp.NewResource("pathrag://graph", "Diagnostic Graph Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.service.Graph().List())
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "pathrag://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
