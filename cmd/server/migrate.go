package main

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/spf13/cobra"

    "github.com/bandoneon/soundbank/internal/config"
    "github.com/bandoneon/soundbank/internal/database"
)

func migrateCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "migrate",
        Short: "Manage the database schema",
    }
    steps := []struct {
        use, short string
        fn         func(context.Context, *sql.DB) error
    }{
        {"up", "Apply all pending migrations", database.Migrate},
        {"down", "Roll back the most recent migration", database.MigrateDown},
        {"status", "Print the state of every migration", database.MigrationStatus},
    }
    for _, s := range steps {
        fn := s.fn
        cmd.AddCommand(&cobra.Command{
            Use:   s.use,
            Short: s.short,
            Args:  cobra.NoArgs,
            RunE: func(cmd *cobra.Command, args []string) error {
                return withDB(cmd.Context(), fn)
            },
        })
    }
    return cmd
}

// withDB opens the pool from the DB_* settings, runs fn and closes it.
func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
    if ctx == nil {
        ctx = context.Background()
    }
    dsn, err := config.LoadDSN()
    if err != nil {
        return err
    }
    ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
    defer cancel()

    db, err := database.Open(ctx, dsn, database.PoolConfig{MaxOpen: 2, MaxIdle: 1, MaxLifetime: time.Minute})
    if err != nil {
        return fmt.Errorf("open database: %w", err)
    }
    defer func() { _ = db.Close() }()
    return fn(ctx, db)
}
