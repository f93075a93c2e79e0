package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/schat"
	"github.com/aretw0/schat/internal/cli"
	"github.com/aretw0/schat/pkg/agent"
)

var rootCmd = &cobra.Command{
	Use:   "schat",
	Short: "Chat with a command-line coding agent",
	Long: `schat keeps a conversation with an agent CLI (cursor-agent, opencode, ...).

Type a prompt and press ctrl+s to send it. The first prompt starts a new agent
session and later prompts continue it; ctrl+l starts over.
Without a terminal, every line read from stdin is sent as one prompt.`,
	Version:       schat.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		return cli.Execute(cmd.Context(), opts)
	},
}

// runOptions collects the flags shared by the chat and mcp commands.
func runOptions(cmd *cobra.Command) (cli.RunOptions, error) {
	flags := cmd.Flags()
	provider, _ := flags.GetString("provider")
	model, _ := flags.GetString("model")
	timeout, _ := flags.GetDuration("timeout")
	configPath, _ := flags.GetString("config")
	workDir, _ := flags.GetString("dir")
	debug, _ := flags.GetBool("debug")
	logFile, _ := flags.GetString("log-file")
	// Only the chat command defines these.
	listen, _ := flags.GetString("listen")
	headless, _ := flags.GetBool("headless")

	if timeout < 0 {
		return cli.RunOptions{}, fmt.Errorf("--timeout must not be negative")
	}

	opts := cli.RunOptions{
		Provider:   provider,
		Model:      model,
		Timeout:    timeout,
		ConfigPath: configPath,
		WorkDir:    workDir,
		Debug:      debug,
		LogFile:    logFile,
		Listen:     listen,
		Headless:   headless,
		Version:    schat.Version,
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
	return opts, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("provider", "p", agent.DefaultProvider, "Agent provider to talk to")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model passed to the provider (when it supports one)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-prompt timeout, e.g. 90s (0 keeps the provider default)")
	rootCmd.PersistentFlags().StringP("config", "c", agent.DefaultConfigFile, "Provider configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("dir", "", "Working directory of the agent (default: current directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file")

	rootCmd.Flags().String("listen", "", "Serve the introspection API (health, session, metrics) on this address, e.g. :9090")
	rootCmd.Flags().Bool("headless", false, "Read prompts line by line from stdin even on a terminal")
}
