// Package api exposes the agenda over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/agenda/internal/agenda"
)

type RouterConfig struct {
	Service *agenda.Service
	Logger  zerolog.Logger
	Version string
	// Now resolves "today" for requests without a date. Defaults to time.Now.
	Now func() time.Time
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.Version, cfg.Service.Controller().Session().TenantID)
	r.Get("/health/live", health.Liveness)

	r.Get("/agenda", weekHandler(cfg.Service, cfg.Now))
	r.Get("/agenda/sugerencia", suggestHandler(cfg.Service, cfg.Now))
	r.Get("/doctores", doctorsHandler(cfg.Service))

	r.Route("/citas", func(r chi.Router) {
		r.Post("/", createAppointmentHandler(cfg.Service))
		r.Get("/paciente/{id}", patientHistoryHandler(cfg.Service))
		r.Get("/{id}", getAppointmentHandler(cfg.Service))
		r.Put("/{id}/iniciar", transitionHandler(startChange(cfg.Service)))
		r.Put("/{id}/cancelar", transitionHandler(cancelChange(cfg.Service)))
		r.Put("/{id}/no-asistio", transitionHandler(noShowChange(cfg.Service)))
		r.Put("/{id}/finalizar", finalizeHandler(cfg.Service))
	})

	return r
}
