package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m3rciful/reportbot/core/buildinfo"
)

var rootCmd = &cobra.Command{
	Use:   "reportbot",
	Short: "Telegram bot collecting problem reports about places",
	Long: `reportbot receives deep links that name a place, asks the user what is wrong
with it and forwards the report to the admin chat.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(versionCmd)
}
