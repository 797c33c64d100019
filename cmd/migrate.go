package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/config"
)

const defaultMigrationsPath = "db/migrations"

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := config.NewZap("info")
			defer func() { _ = log.Sync() }()

			koanf := config.NewKoanf(envFile, log)

			path := koanf.String("MIGRATIONS_PATH")
			if path == "" {
				path = defaultMigrationsPath
			}

			return runMigration(path, koanf.String("POSTGRES_URL"), args[0], log)
		},
	}
}

func runMigration(path string, databaseURL string, direction string, log *zap.Logger) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	m, err := migrate.New("file://"+absPath, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("database already up to date", zap.String("direction", direction))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", direction, err)
	}

	log.Info("database migrations applied", zap.String("direction", direction))
	return nil
}
