package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/schat/internal/presentation/tui"
	httpAdapter "github.com/aretw0/schat/pkg/adapters/http"
)

// RunOptions contains all the configuration for the chat command.
type RunOptions struct {
	Provider   string
	Model      string
	Timeout    time.Duration
	ConfigPath string
	WorkDir    string
	Debug      bool
	LogFile    string
	Listen     string // Address of the introspection server, empty disables it
	Headless   bool
	Version    string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *RunOptions) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// interactive reports whether the terminal UI can take over the session.
func (o *RunOptions) interactive() bool {
	if o.Headless {
		return false
	}
	in, ok := o.Stdin.(*os.File)
	if !ok {
		return false
	}
	out, ok := o.Stdout.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// Execute runs a chat session: the terminal UI when attached to a terminal,
// the line oriented headless mode otherwise.
func Execute(ctx context.Context, opts RunOptions) error {
	opts.setDefaults()
	interactive := opts.interactive()

	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	logger, closer, err := createLogger(opts, interactive)
	if err != nil {
		return err
	}
	defer closer.Close()

	app, err := createApp(opts, logger)
	if err != nil {
		return err
	}
	logger.Info("Session started",
		"provider", app.provider.Name,
		"session_id", app.controller.SessionID(),
		"interactive", interactive,
	)

	serverErr := make(chan error, 1)
	if opts.Listen != "" {
		handler := httpAdapter.NewHandler(app.controller,
			httpAdapter.WithInfo(httpAdapter.Info{
				App:      "schat",
				Version:  opts.Version,
				Provider: app.provider.Name,
				Command:  app.provider.CommandLine(),
			}),
			httpAdapter.WithMetrics(app.metrics.Handler()),
			httpAdapter.WithStreams(app.streams),
			httpAdapter.WithLogger(logger),
		)
		go func() {
			serverErr <- httpAdapter.Serve(sc, opts.Listen, handler, logger)
		}()
	} else {
		serverErr <- nil
	}

	if interactive {
		err = tui.Run(sc, app.controller)
	} else {
		err = RunHeadless(sc, app.controller, opts.Stdin, opts.Stdout)
	}

	// Leaving the session stops the server and any agent still running.
	sc.Cancel()
	app.controller.Wait()
	if srvErr := <-serverErr; srvErr != nil && err == nil {
		err = srvErr
	}

	if sig := sc.Signal(); sig != nil {
		logger.Info("Session interrupted", "signal", sig)
	}
	if err = handleExecutionError(err); err != nil {
		return fmt.Errorf("session failed: %w", err)
	}
	return nil
}
