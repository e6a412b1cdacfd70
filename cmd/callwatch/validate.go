package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newValidateCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the effective values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger.Info("configuration valid",
				zap.String("config", opts.configPath),
				zap.String("serviceName", cfg.ServiceName),
				zap.Bool("killSwitch", cfg.KillSwitch),
				zap.String("logBackend", cfg.Logging.Backend),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", cfg)
			return err
		},
	}
}
