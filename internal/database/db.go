package database

import (
    "context"
    "database/sql"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

// PoolConfig holds connection pool limits.
type PoolConfig struct {
    MaxOpen     int
    MaxIdle     int
    MaxLifetime time.Duration
}

// DefaultPool matches the limits the service runs with in production.
var DefaultPool = PoolConfig{MaxOpen: 25, MaxIdle: 25, MaxLifetime: 30 * time.Minute}

// Open connects to MySQL with dsn and verifies the connection.  The returned
// pool is owned by the caller, which must Close it on shutdown.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    db.SetMaxOpenConns(pool.MaxOpen)
    db.SetMaxIdleConns(pool.MaxIdle)
    db.SetConnMaxLifetime(pool.MaxLifetime)

    // Ping with timeout
    pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := db.PingContext(pctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
