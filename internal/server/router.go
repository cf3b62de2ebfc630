// Package server assembles the portal's HTTP surface.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/clinicbook/booking-portal/internal/http/middleware"
	"github.com/clinicbook/booking-portal/internal/wizard"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	WizardHandler      *wizard.Handler
	MetricsHandler     http.Handler
	DemoBackend        http.Handler
	CORSAllowedOrigins []string

	// SubmitRateLimit throttles booking submissions per IP; zero disables it.
	SubmitRateLimit float64
	SubmitBurst     int
}

// New creates the portal router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WizardHandler != nil {
		routes := cfg.WizardHandler.Routes()
		if cfg.SubmitRateLimit > 0 {
			rl := httpmiddleware.NewRateLimiter(cfg.SubmitRateLimit, cfg.SubmitBurst)
			r.Route("/booking", func(booking chi.Router) {
				booking.Use(rl.Middleware)
				booking.Mount("/", routes)
			})
		} else {
			r.Mount("/booking", routes)
		}
	}

	// The demo backend is only mounted in non-production environments.
	if cfg.DemoBackend != nil {
		r.Mount("/demo", cfg.DemoBackend)
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
