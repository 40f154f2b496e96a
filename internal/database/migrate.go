package database

import (
    "context"
    "database/sql"
    "embed"

    "github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending migrations from the embedded filesystem.
func Migrate(ctx context.Context, db *sql.DB) error {
    goose.SetBaseFS(migrationsFS)
    if err := goose.SetDialect("mysql"); err != nil {
        return err
    }
    return goose.UpContext(ctx, db, "migrations")
}

// MigrationStatus logs the applied/pending state of every migration.
func MigrationStatus(ctx context.Context, db *sql.DB) error {
    goose.SetBaseFS(migrationsFS)
    if err := goose.SetDialect("mysql"); err != nil {
        return err
    }
    return goose.StatusContext(ctx, db, "migrations")
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB) error {
    goose.SetBaseFS(migrationsFS)
    if err := goose.SetDialect("mysql"); err != nil {
        return err
    }
    return goose.DownContext(ctx, db, "migrations")
}
