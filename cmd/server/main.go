package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupsplit/internal/config"
	"github.com/mmynk/groupsplit/pkg/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root CLI command with all subcommands registered.
func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "groupsplit",
		Short: "Split shared group expenses and settle up",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("GROUPSPLIT_CONFIG"), "path to a YAML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))
		return cfg, nil
	}

	rootCmd.AddCommand(
		newServeCommand(load),
		newResultsCommand(load),
		newExportCommand(load),
	)
	return rootCmd
}

type configLoader func() (*config.Config, error)
