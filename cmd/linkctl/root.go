package main

import (
	"context"
	"fmt"
	"os"

	"github.com/IgorGrieder/encurtador-links/internal/bootstrap"
	"github.com/IgorGrieder/encurtador-links/internal/config"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli holds what every subcommand needs once the root pre-run has loaded it.
type cli struct {
	cfg      *config.Config
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "linkctl",
		Short:         "Create, resolve and inspect short links",
		Long:          "linkctl works directly against the configured link store (STORE_BACKEND, SQLITE_PATH, MONGODB_URI).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if cmd.Flags().Changed("log-level") || os.Getenv("LOG_LEVEL") == "" {
				cfg.App.LogLevel = c.logLevel
			}
			if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			c.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level; LOG_LEVEL is used when the flag is not set")

	root.AddCommand(
		newCreateCmd(c),
		newResolveCmd(c),
		newStatsCmd(c),
	)
	return root
}

// withService opens the configured store for the duration of fn.
func (c *cli) withService(ctx context.Context, fn func(svc *links.Service) error) error {
	svc, closeFn, err := bootstrap.NewService(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}
