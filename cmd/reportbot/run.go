package main

import (
	"github.com/spf13/cobra"

	"github.com/m3rciful/reportbot/bots/placereport/app"
	corecmd "github.com/m3rciful/reportbot/core/cmd"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot",
	Long: `Run the bot until SIGINT or SIGTERM.

The config path comes from --config, then CONFIG_PATH, then config.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return corecmd.Run(corecmd.Options{
			ConfigPath:        runConfigPath,
			ConfigEnvVar:      "CONFIG_PATH",
			DefaultConfigPath: "config.yaml",
			LoadConfig:        app.LoadConfig,
			Bootstrap:         app.Bootstrap,
			Context:           cmd.Context(),
		})
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to the YAML config")
}
