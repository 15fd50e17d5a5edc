package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"video-playlist-service/internal/catalog"
	"video-playlist-service/internal/config"
	"video-playlist-service/internal/logging"
	"video-playlist-service/internal/playlist"
)

const serviceName = "playlist-service"

func newRootCommand() *cobra.Command {
	var envFiles []string

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Playlist and video catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFiles)
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Dotenv file(s) to load before reading the environment")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFiles)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), envFiles)
		},
	})

	return rootCmd
}

func loadRuntime(envFiles []string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Service:    serviceName,
	})
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if err := catalog.AutoMigrate(ctx, pool); err != nil {
		return err
	}
	return playlist.AutoMigrate(ctx, pool)
}

func runMigrate(ctx context.Context, envFiles []string) error {
	cfg, log, err := loadRuntime(envFiles)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := migrate(ctx, pool); err != nil {
		return err
	}
	log.Info("schema up to date")
	return nil
}
