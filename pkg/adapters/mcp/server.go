package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/schat/internal/logging"
	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// HistoryURI is the resource exposing the conversation.
const HistoryURI = "schat://history"

// Session is the conversation the MCP server drives.
// *session.Controller satisfies it.
type Session interface {
	Submit(ctx context.Context, raw string) (*session.Ticket, error)
	Reset(ctx context.Context) error
	History() []domain.Exchange
	SessionID() string
}

// Server exposes a Session as an MCP server.
type Server struct {
	session   Session
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sess Session, version string, opts ...Option) *Server {
	s := &Server{
		session:   sess,
		mcpServer: server.NewMCPServer("schat-mcp", version),
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
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: ask
	s.mcpServer.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Send a prompt to the agent and wait for its answer. The conversation continues across calls until reset."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The prompt to send")),
	), s.handleAsk)

	// TOOL: history
	s.mcpServer.AddTool(mcp.NewTool("history",
		mcp.WithDescription("List the exchanges of the current conversation as JSON."),
	), s.handleHistory)

	// TOOL: reset
	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Start a new conversation. The next prompt opens a fresh agent session."),
	), s.handleReset)
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ticket, err := s.session.Submit(ctx, prompt)
	switch {
	case errors.Is(err, domain.ErrBusy):
		return mcp.NewToolResultError("another prompt is still being processed"), nil
	case errors.Is(err, domain.ErrEmptyPrompt):
		return mcp.NewToolResultError("prompt is empty"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %v", err)), nil
	}

	ex, err := ticket.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for exchange %d: %w", ticket.ID(), err)
	}
	s.logger.Debug("MCP ask settled", "exchange", ex.ID, "status", ex.Status)

	if ex.Status == domain.StatusFailed {
		return mcp.NewToolResultError(ex.Response), nil
	}
	return mcp.NewToolResultText(ex.Response), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.session.History())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode history: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.Reset(ctx); err != nil {
		if errors.Is(err, domain.ErrBusy) {
			return mcp.NewToolResultError("cannot reset while a prompt is being processed"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("new session " + s.session.SessionID()), nil
}

func (s *Server) registerResources() {
	// EXPOSE: schat://history
	s.mcpServer.AddResource(mcp.NewResource(HistoryURI, "Conversation History",
		mcp.WithMIMEType("application/json"),
	), s.readHistory)
}

func (s *Server) readHistory(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.session.History())
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      HistoryURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
