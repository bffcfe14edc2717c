package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maml-online/internal/api/http"
	"github.com/spec-kit/maml-online/internal/api/http/handlers"
	"github.com/spec-kit/maml-online/internal/auth"
	"github.com/spec-kit/maml-online/internal/config"
	"github.com/spec-kit/maml-online/internal/events"
	"github.com/spec-kit/maml-online/internal/observability"
	"github.com/spec-kit/maml-online/internal/persistence"
	"github.com/spec-kit/maml-online/internal/redirect"
	"github.com/spec-kit/maml-online/internal/repository"
	"github.com/spec-kit/maml-online/internal/service"
	"github.com/spec-kit/maml-online/internal/session"
	"github.com/spec-kit/maml-online/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var feed service.FeedPublisher
	if redis.Enabled() {
		feed = redis
	}
	var auditLog repository.RegistrationLogRepository
	if pg.Enabled() {
		auditLog = repository.NewRegistrationLogRepository(pg.PoolHandle())
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification, feed, auditLog))

	store := session.NewStore()
	metrics := observability.NewMetrics()
	cookies := auth.NewCookieFactory(cfg.Cookie.Secure)
	guard := auth.NewGuard(store, cookies, logger, metrics)

	registrations := service.NewRegistrationService(service.RegistrationDependencies{
		Registry:   store,
		AdminKeys:  auth.NewAdminKeyChecker(cfg.Auth.AdminKeyHash),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), guard)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics:      handlers.NewMetricsHandler(metrics, store),
		Registration: handlers.NewRegistrationHandler(registrations, cookies),
		Session:      handlers.NewSessionHandler(store, cookies),
		StaticDir:    cfg.App.StaticDir,
	})

	if cfg.Redirect.Enabled {
		go func() {
			if err := redirect.Serve(ctx, redirectConfig(cfg.Redirect), logger); err != nil {
				logger.Error("redirect listen", zap.Error(err))
			}
		}()
	}

	go func() {
		var err error
		if cfg.TLS.Enabled() {
			err = app.ListenTLS(cfg.App.Addr(), cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			logger.Warn("TLS_CERT_FILE/TLS_KEY_FILE not provided; serving plain HTTP")
			err = app.Listen(cfg.App.Addr())
		}
		if err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func redirectConfig(cfg config.RedirectConfig) redirect.Config {
	rc := redirect.DefaultConfig()
	rc.HTTPPort = cfg.HTTPPort
	rc.HTTPSPort = cfg.HTTPSPort
	rc.HSTS = cfg.HSTS
	if cfg.Host != "" {
		rc.TranslateHost = redirect.FixedHost(cfg.Host)
	}
	if cfg.PreservePath {
		rc.TranslateURL = redirect.PreservePath
	}
	return rc
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
