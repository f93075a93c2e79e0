package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/schat/internal/logging"
	"github.com/aretw0/schat/pkg/domain"
)

// DefaultGracePeriod is how long a terminated process gets to exit before it is killed.
const DefaultGracePeriod = 5 * time.Second

// Options configures a single execution.
type Options struct {
	Dir     string            // Working directory (empty means the current one)
	Env     map[string]string // Added on top of the parent environment
	Timeout time.Duration     // Zero or negative disables the timer
}

// Executor runs external processes and folds every outcome into a domain.CommandResult.
type Executor struct {
	gracePeriod time.Duration
	useShell    bool
	logger      *slog.Logger
}

// ExecutorOption configures the executor.
type ExecutorOption func(*Executor)

// WithGracePeriod sets the delay between SIGTERM and SIGKILL.
func WithGracePeriod(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.gracePeriod = d
	}
}

// WithShell forces (or disables) running commands through the platform shell.
func WithShell(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.useShell = enabled
	}
}

// WithLogger configures a logger for process lifecycle events.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates a new Executor.
// On Windows commands go through `cmd /C` so that .cmd and .bat shims resolve.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		gracePeriod: DefaultGracePeriod,
		useShell:    runtime.GOOS == "windows",
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs command with args and waits for the first of: process exit,
// timeout, or ctx cancellation. It never returns an error; spawn failures,
// timeouts and non-zero exits are all encoded in the result.
func (e *Executor) Execute(ctx context.Context, command string, args []string, opts Options) domain.CommandResult {
	name, argv := e.resolve(command, args)

	cmd := exec.Command(name, argv...)
	if e.useShell {
		setCmdLine(cmd, ShellCommandLine(command, args))
	}
	cmd.Dir = opts.Dir
	cmd.Env = mergeEnv(cmd.Environ(), opts.Env)
	// Bounds the wait for pipes held open by grandchildren.
	cmd.WaitDelay = e.gracePeriod

	var stdout, stderr lockedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var timer <-chan time.Time
	if opts.Timeout > 0 {
		t := time.NewTimer(opts.Timeout)
		defer t.Stop()
		timer = t.C
	}

	if err := cmd.Start(); err != nil {
		e.logger.Debug("Process failed to start", "command", command, "err", err)
		return domain.CommandResult{
			ExitCode: domain.ExitUnknown,
			Stderr:   err.Error(),
		}
	}
	e.logger.Debug("Process started", "command", command, "pid", cmd.Process.Pid)

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	select {
	case err := <-exited:
		return exitResult(cmd, err, stdout.String(), stderr.String())

	case <-timer:
		e.logger.Warn("Process timed out", "command", command, "pid", cmd.Process.Pid, "timeout", opts.Timeout)
		e.terminate(cmd, exited)
		return domain.CommandResult{
			Stdout:   strings.TrimSpace(stdout.String()),
			Stderr:   fmt.Sprintf("command timed out after %dms", opts.Timeout.Milliseconds()),
			ExitCode: domain.ExitUnknown,
		}

	case <-ctx.Done():
		e.logger.Warn("Process cancelled", "command", command, "pid", cmd.Process.Pid, "err", ctx.Err())
		e.terminate(cmd, exited)
		return domain.CommandResult{
			Stdout:   strings.TrimSpace(stdout.String()),
			Stderr:   fmt.Sprintf("command cancelled: %v", ctx.Err()),
			ExitCode: domain.ExitUnknown,
		}
	}
}

func (e *Executor) resolve(command string, args []string) (string, []string) {
	if !e.useShell {
		return command, args
	}
	return "cmd", append([]string{"/C", command}, args...)
}

// ShellCommandLine builds the cmd.exe line used on Windows. Every token is
// double-quoted so cmd metacharacters in a prompt reach the agent literally.
// Embedded quotes are doubled to keep cmd inside the quoted run.
func ShellCommandLine(command string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteShellArg(command))
	for _, a := range args {
		parts = append(parts, quoteShellArg(a))
	}
	return `cmd /S /C "` + strings.Join(parts, " ") + `"`
}

func quoteShellArg(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	slashes := 0
	for _, r := range s {
		switch r {
		case '\\':
			slashes++
			b.WriteRune(r)
			continue
		case '"':
			// Backslashes before a quote are escapes for the agent's argv parser.
			b.WriteString(strings.Repeat(`\`, slashes))
			b.WriteString(`""`)
		default:
			b.WriteRune(r)
		}
		slashes = 0
	}
	b.WriteString(strings.Repeat(`\`, slashes))
	b.WriteByte('"')
	return b.String()
}

// terminate asks the process to stop and reaps it in the background,
// escalating to SIGKILL once the grace period is over.
func (e *Executor) terminate(cmd *exec.Cmd, exited <-chan error) {
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Windows cannot deliver SIGTERM.
		_ = cmd.Process.Kill()
	}

	pid := cmd.Process.Pid
	go func() {
		select {
		case <-exited:
		case <-time.After(e.gracePeriod):
			e.logger.Warn("Process ignored SIGTERM, killing", "pid", pid)
			_ = cmd.Process.Kill()
			<-exited
		}
	}()
}

func exitResult(cmd *exec.Cmd, err error, stdout, stderr string) domain.CommandResult {
	result := domain.CommandResult{
		Stdout: strings.TrimSpace(stdout),
		Stderr: strings.TrimSpace(stderr),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case cmd.ProcessState != nil:
		// The process exited but its pipes did not close within WaitDelay.
		result.ExitCode = cmd.ProcessState.ExitCode()
	default:
		result.ExitCode = domain.ExitUnknown
		if result.Stderr == "" {
			result.Stderr = err.Error()
		}
	}
	return result
}

func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// lockedBuffer lets the timeout path read output while the copy goroutines still write.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
