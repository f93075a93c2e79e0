package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/schat/internal/logging"
	"github.com/aretw0/schat/pkg/adapters/process"
	"github.com/aretw0/schat/pkg/domain"
)

// NoOutput is the text reported when the agent succeeds without writing anything.
const NoOutput = "(no output)"

// Executor runs a process and reports a uniform result.
// *process.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, command string, args []string, opts process.Options) domain.CommandResult
}

// Invoker runs one conversational turn against a Provider.
type Invoker struct {
	provider Provider
	executor Executor
	workDir  string
	logger   *slog.Logger
}

// Option configures the Invoker.
type Option func(*Invoker)

// WithExecutor replaces the process executor (tests inject fakes here).
func WithExecutor(executor Executor) Option {
	return func(i *Invoker) {
		i.executor = executor
	}
}

// WithWorkDir sets the directory the agent runs in. Defaults to the current directory.
func WithWorkDir(dir string) Option {
	return func(i *Invoker) {
		i.workDir = dir
	}
}

// WithLogger configures a logger for invocation events.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) {
		i.logger = logger
	}
}

// NewInvoker creates an Invoker for the given provider.
func NewInvoker(provider Provider, opts ...Option) *Invoker {
	i := &Invoker{
		provider: provider,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.executor == nil {
		i.executor = process.NewExecutor(process.WithLogger(i.logger))
	}
	if i.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			i.workDir = wd
		}
	}
	return i
}

// Provider returns the provider this invoker talks to.
func (i *Invoker) Provider() Provider {
	return i.provider
}

// Invoke runs the agent for one turn. It never panics outward and never
// returns an error: every failure is reported through InvokeResult.
func (i *Invoker) Invoke(ctx context.Context, prompt string, newSession bool) (result domain.InvokeResult) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Agent execution panicked", "provider", i.provider.Name, "panic", r)
			result = domain.InvokeResult{
				Succeeded:    false,
				ErrorMessage: fmt.Sprint(r),
			}
		}
	}()

	args := i.provider.BuildArgs(prompt, newSession)
	i.logger.Debug("Invoking agent",
		"provider", i.provider.Name,
		"command", i.provider.Command,
		"new_session", newSession,
		"args", len(args),
	)

	res := i.executor.Execute(ctx, i.provider.Command, args, process.Options{
		Dir:     i.workDir,
		Env:     i.provider.Env,
		Timeout: i.provider.Timeout,
	})

	return normalize(res)
}

func normalize(res domain.CommandResult) domain.InvokeResult {
	if res.ExitCode == 0 {
		text := res.Stdout
		if text == "" {
			text = NoOutput
		}
		return domain.InvokeResult{Text: text, Succeeded: true}
	}

	msg := res.Stderr
	if msg == "" {
		msg = fmt.Sprintf("command failed with code %d", res.ExitCode)
	}
	return domain.InvokeResult{
		Text:         res.Stdout,
		Succeeded:    false,
		ErrorMessage: msg,
	}
}
