package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProviders_YAML(t *testing.T) {
	path := writeFile(t, "schat.yaml", `
providers:
  - name: claude
    command: claude
    args: "-p --output-format text"
    continue_args: ["--continue"]
    timeout: 90s
    env:
      CLAUDE_NO_COLOR: "1"
`)

	providers, err := LoadProviders(path)
	require.NoError(t, err)
	require.Len(t, providers, 1)

	p := providers[0]
	assert.Equal(t, "claude", p.Name)
	assert.Equal(t, []string{"-p", "--output-format", "text"}, p.Args)
	assert.Equal(t, []string{"--continue"}, p.ContinueArgs)
	assert.Equal(t, 90*time.Second, p.Timeout)
	assert.Equal(t, "1", p.Env["CLAUDE_NO_COLOR"])
}

func TestLoadProviders_JSON(t *testing.T) {
	path := writeFile(t, "schat.json", `{"providers":[{"name":"gemini","command":"gemini","prompt_flag":"-p","timeout":"2m"}]}`)

	providers, err := LoadProviders(path)
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "-p", providers[0].PromptFlag)
	assert.Equal(t, 2*time.Minute, providers[0].Timeout)
}

func TestLoadProviders_MissingFile(t *testing.T) {
	providers, err := LoadProviders(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
	assert.Empty(t, providers)
}

func TestLoadProviders_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Broken YAML", "providers: [\n"},
		{"Missing Command", "providers:\n  - name: x\n"},
		{"Unknown Key", "providers:\n  - name: x\n    command: x\n    colour: blue\n"},
		{"Bad Duration", "providers:\n  - name: x\n    command: x\n    timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "schat.yaml", tt.content)
			_, err := LoadProviders(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog_OverlaysBuiltins(t *testing.T) {
	path := writeFile(t, "schat.yaml", `
providers:
  - name: opencode
    command: bunx
    args: ["opencode-ai", "run"]
  - name: local
    command: ./agent.sh
`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cursor", "local", "opencode"}, catalog.Names())

	p, err := catalog.Lookup("opencode")
	require.NoError(t, err)
	assert.Equal(t, "bunx", p.Command)
}

func TestLoadCatalog_EmptyPath(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, []string{"cursor", "opencode"}, catalog.Names())
}
