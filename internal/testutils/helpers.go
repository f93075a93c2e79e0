package testutils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ProjectRoot walks up from the working directory until it finds go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatal("could not find project root (go.mod)")
		}
		root = parent
	}
}

// BuildFixture compiles a Go program under tests/fixtures into a temp binary
// and returns its path. name is relative to tests/fixtures (e.g. "fakeagent"
// or "resilience/good_citizen").
func BuildFixture(t *testing.T, name string) string {
	t.Helper()

	sourcePath := filepath.Join(ProjectRoot(t), "tests", "fixtures", filepath.FromSlash(name))

	exeName := filepath.Base(name)
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	destPath := filepath.Join(t.TempDir(), exeName)

	cmd := exec.Command("go", "build", "-o", destPath, sourcePath)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "Failed to build fixture %s: %s", name, string(out))

	return destPath
}

// ReadPID reads a pid written by a fixture through SCHAT_PID_FILE.
// It returns 0 while the file is missing or incomplete.
func ReadPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
