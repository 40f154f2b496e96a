package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/bandoneon/soundbank/internal/errs"
)

func TestLoad_MissingSecretIsConfigurationError(t *testing.T) {
    t.Setenv("JWT_SECRET", "")
    t.Setenv("DB_DSN", "u@tcp(localhost:3306)/sb")

    _, err := Load()
    require.ErrorIs(t, err, errs.ErrConfiguration)
    assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_BuildsDSNFromParts(t *testing.T) {
    t.Setenv("JWT_SECRET", "k")
    t.Setenv("DB_DSN", "")
    t.Setenv("DB_USER", "sb")
    t.Setenv("DB_PASS", "pw")
    t.Setenv("DB_HOST", "db")
    t.Setenv("DB_PORT", "")
    t.Setenv("DB_NAME", "soundbank")
    t.Setenv("SESSION_TTL", "")
    t.Setenv("SOUNDS_PAGE_SIZE", "")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, "sb:pw@tcp(db:3306)/soundbank?charset=utf8mb4&parseTime=true&loc=UTC", cfg.DSN)
    assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
    assert.Equal(t, 12, cfg.PageSize)
    assert.Equal(t, "auth_token", cfg.CookieName)
}

func TestLoad_MissingDBParts(t *testing.T) {
    t.Setenv("JWT_SECRET", "k")
    t.Setenv("DB_DSN", "")
    t.Setenv("DB_USER", "")
    t.Setenv("DB_HOST", "")
    t.Setenv("DB_NAME", "")

    _, err := Load()
    require.ErrorIs(t, err, errs.ErrConfiguration)
    for _, k := range []string{"DB_USER", "DB_HOST", "DB_NAME"} {
        assert.Contains(t, err.Error(), k)
    }
}

func TestLoad_PageSizeBounds(t *testing.T) {
    t.Setenv("JWT_SECRET", "k")
    t.Setenv("DB_DSN", "u@tcp(localhost:3306)/sb")
    t.Setenv("SOUNDS_PAGE_SIZE", "50")
    t.Setenv("SOUNDS_MAX_PAGE_SIZE", "20")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, 50, cfg.MaxPageSize)
}

func TestLoadDotEnv(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, ".env")
    require.NoError(t, os.WriteFile(p, []byte("SOUNDBANK_DOTENV_CHECK=from-file\n"), 0o600))
    t.Setenv("SOUNDBANK_DOTENV_CHECK", "")
    require.NoError(t, os.Unsetenv("SOUNDBANK_DOTENV_CHECK"))

    LoadDotEnv(p, filepath.Join(dir, "missing.env"))
    assert.Equal(t, "from-file", os.Getenv("SOUNDBANK_DOTENV_CHECK"))
}

func TestLoadRateLimitConfig_Normalizes(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    t.Setenv("RATE_LIMIT_BURST", "")

    c := LoadRateLimitConfig()
    assert.Equal(t, 1, c.Capacity)
    assert.Equal(t, 10*time.Second, c.TTL)
    assert.InDelta(t, 0.5, c.RatePerSecond(), 1e-9)
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    t.Setenv("CACHE_PREFIX", "")
    c := LoadCacheConfig()
    assert.True(t, c.Methods["GET"])
    assert.True(t, c.Methods["HEAD"])
    assert.Equal(t, "soundbank:cache", c.Prefix)
}

func TestLoadRedisConfig(t *testing.T) {
    t.Setenv("REDIS_HOST", "cache")
    t.Setenv("REDIS_PORT", "6380")
    t.Setenv("REDIS_ENABLED", "false")
    c := LoadRedisConfig()
    assert.Equal(t, "cache:6380", c.Addr)
    assert.False(t, c.Enabled)
    assert.Nil(t, NewRedisClient(c))
}

func TestLoadDSN_WithoutJWTSecret(t *testing.T) {
    t.Setenv("JWT_SECRET", "")
    t.Setenv("DB_DSN", "")
    t.Setenv("DB_USER", "sb")
    t.Setenv("DB_PASS", "")
    t.Setenv("DB_HOST", "db")
    t.Setenv("DB_PORT", "3307")
    t.Setenv("DB_NAME", "soundbank")

    dsn, err := LoadDSN()
    require.NoError(t, err)
    assert.Equal(t, "sb@tcp(db:3307)/soundbank?charset=utf8mb4&parseTime=true&loc=UTC", dsn)
}

func TestLoadDSN_RawDSNGetsParseTime(t *testing.T) {
    t.Setenv("DB_DSN", "sb:pw@tcp(db:3306)/soundbank?charset=utf8mb4")

    dsn, err := LoadDSN()
    require.NoError(t, err)
    cfg, err := mysql.ParseDSN(dsn)
    require.NoError(t, err)
    assert.True(t, cfg.ParseTime)
    assert.Equal(t, "sb", cfg.User)
    assert.Equal(t, "pw", cfg.Passwd)
    assert.Equal(t, "db:3306", cfg.Addr)
    assert.Equal(t, "soundbank", cfg.DBName)
    assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestLoadDSN_RawDSNKeptWhenParseTimeSet(t *testing.T) {
    raw := "sb:pw@tcp(db:3306)/soundbank?parseTime=true&loc=UTC"
    t.Setenv("DB_DSN", raw)

    dsn, err := LoadDSN()
    require.NoError(t, err)
    assert.Equal(t, raw, dsn)
}

func TestLoadDSN_MalformedRawDSN(t *testing.T) {
    t.Setenv("DB_DSN", "sb:pw@tcp(db:3306)soundbank")

    _, err := LoadDSN()
    require.Error(t, err)
}
