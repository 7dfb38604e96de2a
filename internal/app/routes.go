package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/csight/reportd/internal/handler"
	"github.com/csight/reportd/internal/middleware"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if app.config.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(app.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	// Health check
	health := handler.Health(nil)
	if app.pool != nil {
		health = handler.Health(app.pool)
	}
	r.Get("/api/health", health)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	// Onboarding, public and rate limited per client
	perMinute := app.config.Onboard.RatePerMinute
	onboardLimit := middleware.RateLimit(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	onboardHandler := handler.NewOnboardHandler(app.logger, app.keys)
	r.With(onboardLimit).Post("/onboard/app", onboardHandler.Activate)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(onboardLimit).Post("/onboard/app", onboardHandler.Activate)

		if app.config.AdminToken == "" {
			return
		}

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireToken(app.config.AdminToken))

			settingsHandler := handler.NewSettingsHandler(app.logger, app.settings, app.mailer)
			r.Post("/settings/smtp/test", settingsHandler.Test)

			// Database backed
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAvailable(func() bool { return app.pool != nil }))

				recipientHandler := handler.NewRecipientHandler(app.logger, app.recipients)
				r.Get("/recipients", recipientHandler.List)
				r.Post("/recipients", recipientHandler.Create)
				r.Get("/recipients/{id}", recipientHandler.Get)
				r.Delete("/recipients/{id}", recipientHandler.Delete)

				reportHandler := handler.NewReportHandler(app.logger, app.recipients, app.notifier)
				r.Post("/recipients/{id}/email", reportHandler.Email)

				r.Get("/settings/smtp", settingsHandler.Get)
				r.Put("/settings/smtp", settingsHandler.Update)
			})
		})
	})
	return r
}
