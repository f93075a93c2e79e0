package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/schat/internal/testutils"
	"github.com/aretw0/schat/pkg/agent"
	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/session"
)

type echoInvoker struct{}

func (echoInvoker) Invoke(ctx context.Context, prompt string, newSession bool) domain.InvokeResult {
	if prompt == "fail" {
		return domain.InvokeResult{ErrorMessage: "bad arg"}
	}
	return domain.InvokeResult{Text: "echo: " + prompt, Succeeded: true}
}

func writeConfig(t *testing.T, providers ...agent.Provider) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{"providers": providers})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "schat.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunHeadless(t *testing.T) {
	ctx := context.Background()

	t.Run("One Prompt Per Line", func(t *testing.T) {
		c := session.NewController(echoInvoker{})
		var out bytes.Buffer

		err := RunHeadless(ctx, c, strings.NewReader("hello\n\n   \nfail\nworld"), &out)
		require.NoError(t, err)

		assert.Equal(t, "echo: hello\n\nError: bad arg\n\necho: world\n\n", out.String())
		assert.Len(t, c.History(), 3)
	})

	t.Run("New Session Command", func(t *testing.T) {
		c := session.NewController(echoInvoker{})
		first := c.SessionID()
		var out bytes.Buffer

		require.NoError(t, RunHeadless(ctx, c, strings.NewReader("hello\n/new\n"), &out))
		assert.Empty(t, c.History())
		assert.NotEqual(t, first, c.SessionID())
		assert.True(t, c.Snapshot().NewSession)
	})

	t.Run("Oversized Line Is Reported", func(t *testing.T) {
		t.Setenv(session.EnvMaxInputSize, "4")
		c := session.NewController(echoInvoker{})
		var out bytes.Buffer

		require.NoError(t, RunHeadless(ctx, c, strings.NewReader("too long\nok\n"), &out))
		assert.True(t, strings.HasPrefix(out.String(), "Error: input exceeds maximum allowed size"), out.String())
		assert.Contains(t, out.String(), "echo: ok")
	})

	t.Run("Cancelled", func(t *testing.T) {
		c := session.NewController(echoInvoker{})
		r, w := io.Pipe()
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RunHeadless(ctx, c, r, io.Discard)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResolveProvider(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		p, err := resolveProvider(RunOptions{})
		require.NoError(t, err)
		assert.Equal(t, agent.DefaultProvider, p.Name)
	})

	t.Run("Overrides", func(t *testing.T) {
		p, err := resolveProvider(RunOptions{Provider: "cursor", Model: "gpt-5", Timeout: time.Minute})
		require.NoError(t, err)
		assert.Equal(t, "gpt-5", p.Model)
		assert.Equal(t, time.Minute, p.Timeout)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := resolveProvider(RunOptions{Provider: "nope"})
		assert.ErrorIs(t, err, domain.ErrUnknownProvider)
		assert.Contains(t, err.Error(), "cursor, opencode")
	})

	t.Run("Model Without Flag", func(t *testing.T) {
		path := writeConfig(t, agent.Provider{Name: "plain", Command: "plain"})
		_, err := resolveProvider(RunOptions{Provider: "plain", ConfigPath: path, Model: "x"})
		assert.Error(t, err)
	})

	t.Run("From Config", func(t *testing.T) {
		path := writeConfig(t, agent.Provider{Name: "plain", Command: "plain", Timeout: time.Second})
		p, err := resolveProvider(RunOptions{Provider: "plain", ConfigPath: path})
		require.NoError(t, err)
		assert.Equal(t, "plain", p.Command)
	})
}

func TestListProviders(t *testing.T) {
	path := writeConfig(t, agent.Provider{Name: "claude", Command: "claude", Args: []string{"-p"}, Description: "Anthropic CLI"})

	var out bytes.Buffer
	require.NoError(t, ListProviders(&out, path))

	listing := out.String()
	assert.Contains(t, listing, "opencode (default)")
	assert.Contains(t, listing, "cursor-agent")
	assert.Contains(t, listing, "claude -p <prompt>")
	assert.Contains(t, listing, "Anthropic CLI")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(tea.ErrProgramKilled))
	assert.NoError(t, handleExecutionError(io.EOF))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}

func TestCreateLogger(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schat.log")
		logger, closer, err := createLogger(RunOptions{LogFile: path}, true)
		require.NoError(t, err)
		logger.Info("hello")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "msg=hello")
	})

	t.Run("Debug To Stderr", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, _, err := createLogger(RunOptions{Debug: true, Stderr: &stderr}, false)
		require.NoError(t, err)
		logger.Debug("visible")
		assert.Contains(t, stderr.String(), "msg=visible")
	})

	t.Run("Silent Under TUI", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, _, err := createLogger(RunOptions{Debug: true, Stderr: &stderr}, true)
		require.NoError(t, err)
		logger.Error("hidden")
		assert.Empty(t, stderr.String())
	})
}

func TestExecute_Headless(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a fixture binary")
	}
	bin := testutils.BuildFixture(t, "fakeagent")
	path := writeConfig(t, agent.Provider{
		Name:         "fake",
		Command:      bin,
		ContinueArgs: []string{"--continue"},
		Timeout:      10 * time.Second,
	})

	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Provider:   "fake",
		ConfigPath: path,
		Headless:   true,
		Stdin:      strings.NewReader("hello\nagain\n/new\nfresh\n"),
		Stdout:     &out,
		Stderr:     io.Discard,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"arg: hello\n\narg: --continue\narg: again\n\narg: fresh\n\n",
		out.String(),
	)
}

func TestExecute_UnknownProvider(t *testing.T) {
	err := Execute(context.Background(), RunOptions{
		Provider: "nope",
		Headless: true,
		Stdin:    strings.NewReader(""),
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
