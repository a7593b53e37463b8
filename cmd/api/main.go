// Package main is the entrypoint for the contacts manager API server.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/contactsmgr/contacts/internal/cache"
	"github.com/contactsmgr/contacts/internal/config"
	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/handler"
	"github.com/contactsmgr/contacts/internal/metrics"
	"github.com/contactsmgr/contacts/internal/middleware"
	"github.com/contactsmgr/contacts/internal/repository"
	"github.com/contactsmgr/contacts/internal/seed"
	"github.com/contactsmgr/contacts/internal/server"
	"github.com/contactsmgr/contacts/internal/service"
	"github.com/contactsmgr/contacts/internal/storage"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database (persons and countries over pgx)
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Accounts live behind database/sql with lib/pq
	usersDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open users database", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		os.Exit(1)
	}
	defer usersDB.Close()
	usersDB.SetMaxOpenConns(5)
	usersDB.SetConnMaxIdleTime(5 * time.Minute)
	users := repository.NewUserRepository(usersDB)

	// Initialize cache (sessions and login throttling)
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	if cfg.SeedOnStart {
		if err := applySeed(ctx, repo, cfg.SeedDir, logger); err != nil {
			logger.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheus(registry)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)

	// Change events (optional)
	var publisher events.Publisher
	var natsPublisher *events.JetStreamPublisher
	if cfg.NATSEnabled() {
		natsPublisher, err = events.NewJetStreamPublisher(cfg.NATSURL, cfg.NATSStream)
		if err != nil {
			logger.Warn("event publishing disabled", "error", sanitizeError(err, cfg.NATSURL))
		} else if err := natsPublisher.EnsureStream(ctx); err != nil {
			logger.Warn("event publishing disabled", "error", err)
			natsPublisher.Close()
			natsPublisher = nil
		} else {
			publisher = natsPublisher
			healthHandler.WithOptional("nats", natsPublisher)
			logger.Info("publishing change events", "stream", cfg.NATSStream)
		}
	}
	dispatcher := events.NewDispatcher(publisher, logger, recorder)

	// File archive (optional)
	var archiver storage.Archiver = storage.NoopArchiver{}
	if cfg.MinIOEnabled() {
		store, err := storage.NewMinIOStore(storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			logger.Warn("file archive disabled", "error", err)
		} else if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("file archive disabled", "error", err)
		} else {
			archiver = store
			healthHandler.WithOptional("minio", store)
			logger.Info("archiving uploads and exports", "bucket", cfg.MinIOBucket)
		}
	}

	// Initialize services
	deps := service.Deps{
		Logger:   logger,
		Metrics:  recorder,
		Events:   dispatcher,
		Archiver: archiver,
	}
	countriesService := service.NewCountriesService(repo, deps)
	personsServices := handler.PersonsServices{
		Adder:     service.NewPersonsAdderService(repo, repo, deps),
		Getter:    service.NewPersonsGetterService(repo, deps),
		Sorter:    service.NewPersonsSorterService(),
		Updater:   service.NewPersonsUpdaterService(repo, repo, deps),
		Deleter:   service.NewPersonsDeleterService(repo, deps),
		Countries: countriesService,
	}
	accountsService := service.NewAccountsService(users, cacheClient, cacheClient, nil, service.AccountsConfig{
		SessionTTL:         cfg.SessionTTL,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		LoginBurst:         cfg.LoginBurst,
	}, deps)

	// Security and CORS
	securityCfg := middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		MaxUploadSize:      cfg.MaxUploadSize,
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	// Setup router
	r := handler.NewRouter(handler.RouterConfig{
		Logger:     logger,
		Recorder:   recorder,
		Base:       handler.New(),
		Health:     healthHandler,
		Metrics:    handler.NewMetricsHandler(registry),
		Persons:    handler.NewPersonsHandler(personsServices, logger),
		Countries:  handler.NewCountriesHandler(countriesService, logger, cfg.MaxUploadSize),
		Account:    handler.NewAccountHandler(accountsService, handler.CookieConfig{Name: cfg.SessionCookieName, Secure: cfg.IsProduction()}, logger),
		Sessions:   accountsService,
		CookieName: cfg.SessionCookieName,
		Security:   securityCfg,
		CORS:       corsCfg,
	})

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first so it stops last: pending events drain before the connection closes.
	if natsPublisher != nil {
		srv.OnShutdown("nats", func(context.Context) error {
			natsPublisher.Close()
			return nil
		})
	}
	srv.OnShutdown("events", dispatcher.Wait)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"events", natsPublisher != nil,
		"archive", cfg.MinIOEnabled(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func applySeed(ctx context.Context, repo *repository.Repository, dir string, logger *slog.Logger) error {
	fixtures, err := seed.Load(dir)
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, repo, fixtures, logger)
	return err
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
