package cli

import (
	"context"
	"fmt"
	"log"

	mcpAdapter "github.com/aretw0/schat/pkg/adapters/mcp"
)

// MCPOptions configures the MCP server command.
type MCPOptions struct {
	RunOptions
	Transport string // "stdio" or "sse"
	Port      int
}

// RunMCP exposes a chat session as an MCP server.
func RunMCP(ctx context.Context, opts MCPOptions) error {
	opts.setDefaults()

	sc := NewSignalContext(ctx)
	defer sc.Cancel()

	// Stdout carries JSON-RPC; logs go to stderr or the log file.
	logger, closer, err := createLogger(opts.RunOptions, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.SetOutput(opts.Stderr)

	app, err := createApp(opts.RunOptions, logger)
	if err != nil {
		return err
	}
	srv := mcpAdapter.NewServer(app.controller, opts.Version, mcpAdapter.WithLogger(logger))

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting schat MCP Server (Stdio)", "provider", app.provider.Name)
		err = srv.ServeStdio()
	case "sse":
		err = srv.ServeSSE(sc, opts.Port)
	default:
		return fmt.Errorf("unknown transport %q (valid options are stdio, sse)", opts.Transport)
	}

	sc.Cancel()
	app.controller.Wait()
	return handleExecutionError(err)
}
