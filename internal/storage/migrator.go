package storage

import (
	"context"
	"fmt"

	"sauna-offer-bot/internal/storage/migrations"
)

// Migration commands accepted by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Migrate runs one goose command against the offers database.
func (s *PostgresStorage) Migrate(ctx context.Context, command string) error {
	switch command {
	case MigrateUp:
		return s.RunMigrations(ctx)
	case MigrateDown:
		return s.RollbackMigration(ctx)
	case MigrateStatus:
		return s.MigrationStatus(ctx)
	default:
		return fmt.Errorf("storage.Migrate: unknown command %q", command)
	}
}

func (s *PostgresStorage) RunMigrations(ctx context.Context) error {
	const operation = "storage.RunMigrations"

	s.logger.Info("Running database migrations...")
	if err := migrations.Up(ctx, s.DB()); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	s.logger.Info("Database migrations completed successfully")
	return nil
}

func (s *PostgresStorage) RollbackMigration(ctx context.Context) error {
	const operation = "storage.RollbackMigration"

	s.logger.Info("Rolling back last migration...")
	if err := migrations.Down(ctx, s.DB()); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	s.logger.Info("Migration rollback completed")
	return nil
}

func (s *PostgresStorage) MigrationStatus(ctx context.Context) error {
	const operation = "storage.MigrationStatus"

	if err := migrations.Status(ctx, s.DB()); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}
