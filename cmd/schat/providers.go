package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/schat/internal/cli"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the available agent providers",
	Long:  `Lists the built-in providers and the ones defined in the configuration file, with the command line each one runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		return cli.ListProviders(cmd.OutOrStdout(), configPath)
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
