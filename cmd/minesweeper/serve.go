package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-engine/internal/app"
	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the game server",
		Long: `Start the HTTP server hosting minesweeper games.

Settings are read from the JSON file given by --config and may be
overridden with MINES_* environment variables, e.g. MINES_ADDR=:9000 or
MINES_JWT_SECRET=changeme.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log, cfg.Development())
	if err != nil {
		return err
	}
	mines.Log = logger
	logger.WithFields(cfg.Fields()).Debug("loaded config")

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := a.Start(ctx); err != nil {
		logger.WithError(err).Error("server stopped")
		return err
	}
	logger.Info("server stopped")
	return nil
}
