// Package app wires the request queue components from configuration. The server, the
// cronjob runner and the CLI all start from Build.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"canna-backoffice-requests/internal/backend"
	"canna-backoffice-requests/internal/cache"
	"canna-backoffice-requests/internal/config"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/notify"
	"canna-backoffice-requests/internal/repository"
	"canna-backoffice-requests/internal/repository/postgres"
	"canna-backoffice-requests/internal/security"
	"canna-backoffice-requests/internal/service"

	"github.com/joho/godotenv"
)

// App holds the wired components. Close releases them.
type App struct {
	Config    *config.Config
	Tokens    security.TokenManager
	Loader    *cache.Loader
	Backend   *backend.Client
	Requests  service.ReconciliationService
	Actions   service.ActionService
	Feed      *notify.Feed
	Deferred  *notify.Deferred
	Decisions repository.DecisionRepository
	Mailer    notify.Mailer

	closers []io.Closer
}

// LoadConfig reads .env (when present) and then the YAML file.
func LoadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err)
	}
	return config.Load(path)
}

// Build connects the optional stores and assembles the services. lifetime bounds deferred
// notifications; extra notifiers receive every notification alongside the log and the feed.
func Build(lifetime context.Context, cfg *config.Config, extra ...notify.Notifier) (*App, error) {
	a := &App{Config: cfg}

	a.Tokens = security.NewTokenManager(cfg.JWT.Secret)

	store, err := a.cacheStore(lifetime)
	if err != nil {
		return nil, err
	}
	a.Loader = cache.NewLoader(store, cfg.CacheTTL())

	a.Decisions, err = a.decisionRepository()
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	ttl := time.Duration(cfg.JWT.ServiceTokenExpiry) * time.Minute
	a.Backend = backend.NewClient(
		cfg.Backend.BaseURL,
		&http.Client{Timeout: cfg.BackendTimeout()},
		backend.ServiceTokenAuth(a.Tokens, cfg.Backend.ServiceSubject, ttl),
	)
	a.Requests = service.NewReconciler(a.Backend, a.Loader, cfg.DisplayLocation())

	a.Feed = notify.NewFeed(cfg.Notify.FeedSize)
	notifier := append(notify.Multi{notify.LogNotifier{}, a.Feed}, extra...)
	a.Deferred = notify.NewDeferred(lifetime, notifier)
	a.Actions = service.NewDispatcher(a.Backend, a.Requests, a.Loader, notifier, a.Deferred, a.Decisions, cfg.FollowUpDelay())

	a.Mailer = newMailer(cfg.Mail)

	return a, nil
}

func newMailer(cfg config.MailConfig) notify.Mailer {
	switch {
	case cfg.SendGridAPIKey != "":
		logger.Info("Using SendGrid for digest emails")
		return notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	case cfg.SMTPHost != "":
		logger.Info("Using SMTP for digest emails", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
		return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail)
	default:
		logger.Info("No mail provider configured, digest emails will only be logged")
		return notify.NopMailer{}
	}
}

func (a *App) cacheStore(ctx context.Context) (cache.Store, error) {
	cfg := a.Config.Cache
	if cfg.Type != "redis" {
		logger.Info("Using in-memory collection cache", "ttl_seconds", cfg.TTLSeconds)
		return cache.NewMemoryStore(), nil
	}

	logger.Info("Connecting to redis...", "address", cfg.RedisAddr, "db", cfg.RedisDB)
	client, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client)
	logger.Info("Redis connection established")
	return cache.NewRedisStore(client, cfg.KeyPrefix), nil
}

func (a *App) decisionRepository() (repository.DecisionRepository, error) {
	cfg := a.Config
	if !cfg.AuditEnabled() {
		logger.Info("Database not configured, decision audit disabled")
		return repository.NopDecisionRepository{}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, db)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate decision schema: %w", err)
	}
	return store.DecisionRepository, nil
}

// Close stops pending follow-ups and closes connections.
func (a *App) Close() error {
	if a.Deferred != nil {
		a.Deferred.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
