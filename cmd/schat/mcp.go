package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/schat/internal/cli"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes a schat conversation as an MCP Server.
Other agents can then ask the configured provider through the "ask" tool,
read the conversation with "history" and start over with "reset".

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		return cli.RunMCP(cmd.Context(), cli.MCPOptions{
			RunOptions: opts,
			Transport:  transport,
			Port:       port,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport type (stdio, sse)")
	mcpCmd.Flags().Int("port", 8080, "Port for SSE server")
}
