package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonwraymond/callwatch/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "callwatch",
		Short:         "Call reporting, null checks and exit guarding for Go services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newValidateCmd(logger, opts),
		newDemoCmd(logger, opts),
	)

	return root
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	return config.Load(opts.configPath, cmd.Flags())
}
