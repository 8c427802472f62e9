package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile  string
	metricsFile string
	app         *app
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "sourcing",
		Short:         "Product sourcing assistant: photos in, DDP sourcing proposal out",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "optional config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "write session metrics to this file on exit")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), opts.configFile)
		if err != nil {
			return err
		}
		opts.app = a
		return nil
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return opts.app.writeMetrics(opts.metricsFile)
	}
	cobra.OnFinalize(func() { opts.app.Close() })

	rootCmd.AddCommand(
		analyzeCommand(opts),
		historyCommand(opts),
		alertsCommand(opts),
		leadCommand(opts),
		exportCommand(opts),
	)
	return rootCmd
}
