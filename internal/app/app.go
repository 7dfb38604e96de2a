package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/csight/reportd/internal/config"
	"github.com/csight/reportd/internal/crypto"
	"github.com/csight/reportd/internal/db"
	"github.com/csight/reportd/internal/mailer"
	"github.com/csight/reportd/internal/model"
	"github.com/csight/reportd/internal/notification"
	"github.com/csight/reportd/internal/onboard"
	"github.com/csight/reportd/internal/store"
)

type App struct {
	config     *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool // nil when no database is configured
	recipients *store.RecipientStore
	settings   *store.SettingsStore
	mailer     *mailer.Mailer
	notifier   *notification.Notifier
	keys       *onboard.Keyring
	registry   *prometheus.Registry
}

func (app *App) Close() {
	if app.pool != nil {
		app.pool.Close()
	}
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(cfg)

	return newApp(context.Background(), cfg, logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		keys: onboard.NewKeyring(map[onboard.Feature]string{
			onboard.FeatureCsight:             cfg.Onboard.CsightKey,
			onboard.FeatureDora:               cfg.Onboard.DoraKey,
			onboard.FeatureValueStream:        cfg.Onboard.ValueStreamKey,
			onboard.FeatureOperationalMetrics: cfg.Onboard.OperationalMetricsKey,
		}),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if len(app.keys.Features()) == 0 {
		logger.Warn("no onboarding keys configured; every onboarding request will be refused")
	}

	smtp := defaultSMTPSettings(cfg)
	if cfg.DatabaseURL != "" {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		sealer, err := crypto.New([]byte(cfg.SettingsEncryptionKey))
		if err != nil {
			pool.Close()
			return nil, err
		}

		app.pool = pool
		app.recipients = store.NewRecipientStore(pool)
		app.settings = store.NewSettingsStore(pool, sealer, smtp)

		stored, err := app.settings.Load(ctx)
		if err != nil {
			logger.Warn("settings: falling back to environment", "err", err)
		} else {
			smtp = *stored
		}
	} else {
		logger.Info("no DATABASE_URL configured; recipient and settings routes are disabled")
	}

	app.mailer = mailer.New(mailer.FromSettings(smtp))
	app.notifier = notification.NewNotifier(app.mailer, notification.Options{
		MailFrom:            smtp.FromAddress,
		CTA:                 cfg.EmailReportsCTA,
		CTAURL:              cfg.EmailReportsCTAURL,
		ReportSubjectPrefix: cfg.EmailReportSubjectPrefix,
		AlertTitlePrefix:    cfg.AlertTitlePrefix,
	}, notification.NewMetrics(app.registry), logger)

	return app, nil
}

func (app *App) Start(ctx context.Context) error {
	// Create an errgroup derived from the parent context
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	g.Go(func() error {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done() // Wait for OS signal or a failed listener

		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	app.logger.Info("stopped server")
	return nil
}

// defaultSMTPSettings are the mail settings taken from the environment. They
// seed the settings table on first start.
func defaultSMTPSettings(cfg *config.Config) model.SMTPSettings {
	return model.SMTPSettings{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.SMTPMailFrom,
		StartTLS:    cfg.SMTPStartTLS,
		SSL:         cfg.SMTPSSL,
		DryRun:      cfg.EmailDryRun,
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(newLogHandler(cfg, os.Stdout))
	slog.SetDefault(logger)
	return logger
}

// newLogHandler logs JSON in production and text elsewhere.
func newLogHandler(cfg *config.Config, w io.Writer) slog.Handler {
	logLevel := slog.LevelInfo

	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if cfg.IsProduction() {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
