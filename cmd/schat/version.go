package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/schat"
	"github.com/aretw0/schat/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of schat",
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("short")
		if quiet {
			fmt.Fprintln(cmd.OutOrStdout(), schat.Version)
			return
		}
		tui.PrintBanner(cmd.OutOrStdout(), schat.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}
