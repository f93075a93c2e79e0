package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInvoker struct {
	gate chan struct{}
}

func (e *echoInvoker) Invoke(ctx context.Context, prompt string, newSession bool) domain.InvokeResult {
	if e.gate != nil {
		<-e.gate
	}
	if prompt == "fail" {
		return domain.InvokeResult{ErrorMessage: "bad arg"}
	}
	return domain.InvokeResult{Text: "echo: " + prompt, Succeeded: true}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	content, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return content.Text
}

func TestServer_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s := NewServer(session.NewController(&echoInvoker{}), "test")

		res, err := s.handleAsk(ctx, callRequest("ask", map[string]any{"prompt": "hello"}))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "echo: hello", text(t, res))
	})

	t.Run("Agent Failure", func(t *testing.T) {
		s := NewServer(session.NewController(&echoInvoker{}), "test")

		res, err := s.handleAsk(ctx, callRequest("ask", map[string]any{"prompt": "fail"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "Error: bad arg", text(t, res))
	})

	t.Run("Missing Prompt", func(t *testing.T) {
		s := NewServer(session.NewController(&echoInvoker{}), "test")

		res, err := s.handleAsk(ctx, callRequest("ask", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("Empty Prompt", func(t *testing.T) {
		s := NewServer(session.NewController(&echoInvoker{}), "test")

		res, err := s.handleAsk(ctx, callRequest("ask", map[string]any{"prompt": "   "}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "prompt is empty", text(t, res))
	})

	t.Run("Busy", func(t *testing.T) {
		inv := &echoInvoker{gate: make(chan struct{})}
		c := session.NewController(inv)
		s := NewServer(c, "test")

		ticket, err := c.Submit(ctx, "first")
		require.NoError(t, err)

		res, err := s.handleAsk(ctx, callRequest("ask", map[string]any{"prompt": "second"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)

		reset, err := s.handleReset(ctx, callRequest("reset", nil))
		require.NoError(t, err)
		assert.True(t, reset.IsError)

		close(inv.gate)
		_, err = ticket.Wait(ctx)
		require.NoError(t, err)
	})
}

func TestServer_HistoryAndReset(t *testing.T) {
	ctx := context.Background()
	c := session.NewController(&echoInvoker{})
	s := NewServer(c, "test")

	_, err := s.handleAsk(ctx, callRequest("ask", map[string]any{"prompt": "hello"}))
	require.NoError(t, err)

	res, err := s.handleHistory(ctx, callRequest("history", nil))
	require.NoError(t, err)

	var exchanges []domain.Exchange
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &exchanges))
	require.Len(t, exchanges, 1)
	assert.Equal(t, "echo: hello", exchanges[0].Response)

	contents, err := s.readHistory(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	resource, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, HistoryURI, resource.URI)
	assert.Contains(t, resource.Text, `"prompt":"hello"`)

	before := c.SessionID()
	res, err = s.handleReset(ctx, callRequest("reset", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "new session "+c.SessionID(), text(t, res))
	assert.NotEqual(t, before, c.SessionID())
	assert.Empty(t, c.History())
}
