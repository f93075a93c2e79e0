package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/schat"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, schat.Version+"\n", out)
}

func TestProvidersCommand(t *testing.T) {
	out, err := run(t, "", "providers", "--config", "does-not-exist.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "cursor-agent --sandbox enabled --mode ask")
	assert.Contains(t, out, "opencode (default)")
}

func TestRootCommand_RejectsUnknownProvider(t *testing.T) {
	_, err := run(t, "", "--provider", "nope", "--headless")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRootCommand_RejectsNegativeTimeout(t *testing.T) {
	_, err := run(t, "", "--timeout", "-1s", "--headless")
	assert.ErrorContains(t, err, "--timeout")
}
