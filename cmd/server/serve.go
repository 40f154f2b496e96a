package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/config"
    "github.com/bandoneon/soundbank/internal/database"
    "github.com/bandoneon/soundbank/internal/handler"
    "github.com/bandoneon/soundbank/internal/metrics"
    "github.com/bandoneon/soundbank/internal/middleware"
    "github.com/bandoneon/soundbank/internal/queue"
    "github.com/bandoneon/soundbank/internal/repository"
    "github.com/bandoneon/soundbank/internal/router"
    "github.com/bandoneon/soundbank/internal/service"
    "github.com/bandoneon/soundbank/internal/utils"
    "github.com/bandoneon/soundbank/internal/validation"
)

func serveCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "serve",
        Short: "Start the HTTP server",
        RunE: func(cmd *cobra.Command, args []string) error {
            return serve()
        },
    }
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
    zc := zap.NewDevelopmentConfig()
    if cfg.IsProduction() {
        zc = zap.NewProductionConfig()
    }
    if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
        zc.Level = lvl
    }
    return zc.Build()
}

func serve() error {
    cfg, err := config.Load()
    if err != nil {
        return fmt.Errorf("load config: %w", err)
    }
    logger, err := newLogger(cfg)
    if err != nil {
        return fmt.Errorf("build logger: %w", err)
    }
    defer func() { _ = logger.Sync() }()
    logger.Info("starting",
        zap.String("version", version),
        zap.String("buildDate", buildDate),
        zap.String("env", cfg.Env),
        zap.String("port", cfg.Port),
    )

    tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
    if err != nil {
        logger.Fatal("token service", zap.Error(err))
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    db, err := database.Open(ctx, cfg.DSN, database.DefaultPool)
    if err != nil {
        logger.Fatal("open database", zap.Error(err))
    }
    defer func() { _ = db.Close() }()

    if cfg.AutoMigrate {
        if err := database.Migrate(ctx, db); err != nil {
            logger.Fatal("migrate up", zap.Error(err))
        }
    }

    rdb := config.NewRedisClient(config.LoadRedisConfig())
    if rdb == nil {
        logger.Warn("redis unavailable; response cache off, rate limiting in process")
    } else {
        defer func() { _ = rdb.Close() }()
    }

    m := metrics.New()
    cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, m, logger)

    // Repositories
    sounds := repository.NewSoundRepo(db)
    packs := repository.NewSoundpackRepo(db)
    hashtags := repository.NewHashtagRepo(db)
    users := repository.NewUserRepo(db)
    articles := repository.NewArticleRepo(db)

    // Services
    catalog := service.NewCatalogService(sounds, packs, hashtags, logger).
        WithPaging(cfg.PageSize, cfg.MaxPageSize).
        WithMetrics(m).
        WithCachePurger(cache)
    if cfg.EventsEnabled {
        catalog.WithEvents(service.NewAMQPPublisher(cfg.AMQPURL, logger))
        consumer := queue.NewConsumer(cfg.AMQPURL, cfg.CatalogLogPath, logger)
        go func() {
            if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
                logger.Error("catalog consumer stopped", zap.Error(err))
            }
        }()
    }
    auth := service.NewAuthService(users, tokens, cfg.BcryptCost, logger)

    // HTTP
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Validator = validation.New()
    e.Use(
        middleware.Recover(logger),
        middleware.RequestLogger(logger),
        middleware.Metrics(m),
    )

    router.RegisterRoutes(e, db, m)
    router.RegisterPublic(e,
        handler.NewSoundsHandler(catalog, logger),
        handler.NewArticleHandler(articles, logger),
        cache,
    )
    router.RegisterAuth(e,
        handler.NewAuthHandler(auth, handler.CookieSettings{
            Name:   cfg.CookieName,
            TTL:    cfg.SessionTTL,
            Secure: cfg.IsProduction(),
        }, logger),
        tokens,
        middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, m, logger),
    )
    router.RegisterAdmin(e, handler.NewAdminHandler(catalog, logger), tokens, cfg.CookieName)

    errCh := make(chan error, 1)
    go func() {
        addr := ":" + cfg.Port
        logger.Info("listening", zap.String("addr", addr))
        errCh <- e.Start(addr)
    }()

    select {
    case <-ctx.Done():
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := e.Shutdown(shutdownCtx); err != nil {
            logger.Error("shutdown", zap.Error(err))
        }
    case err := <-errCh:
        if err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server error", zap.Error(err))
            return err
        }
    }
    logger.Info("shutdown complete")
    return nil
}
