package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicbook/booking-portal/internal/app/bootstrap"
	"github.com/clinicbook/booking-portal/internal/auth"
	"github.com/clinicbook/booking-portal/internal/backend"
	appconfig "github.com/clinicbook/booking-portal/internal/config"
	"github.com/clinicbook/booking-portal/internal/demo"
	"github.com/clinicbook/booking-portal/internal/observability/metrics"
	"github.com/clinicbook/booking-portal/internal/server"
	"github.com/clinicbook/booking-portal/internal/wizard"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking portal",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Clinic-local timezone for all calendar math.
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		logger.Error("failed to load clinic timezone", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	store := bootstrap.BuildSessionStore(context.Background(), cfg, logger)

	// Backend wiring. Without a configured backend URL the built-in demo
	// backend is mounted under /demo and the wizard talks to it over
	// loopback, which keeps local development self-contained.
	var demoRoutes http.Handler
	backendURL := cfg.BackendBaseURL
	if backendURL == "" {
		if cfg.Env == "production" {
			logger.Error("BACKEND_BASE_URL is required in production")
			os.Exit(1)
		}
		cfg.DemoBackend = true
		backendURL = "http://127.0.0.1:" + cfg.Port + "/demo"
		logger.Warn("no backend configured, using built-in demo backend", "url", backendURL)
	}
	if cfg.DemoBackend {
		demoRoutes = demo.NewHandler().Routes()
	}

	client := backend.NewClient(backendURL, logger.Component("backend"))
	client.SetTimeout(cfg.BackendTimeout)
	if cfg.BackendToken != "" {
		tokens, err := auth.NewStaticToken(cfg.BackendToken)
		if err != nil {
			logger.Error("invalid backend token", "error", err)
			os.Exit(1)
		}
		client.SetTokenSource(tokens)
	}

	svc := wizard.NewService(store, client, bookingMetrics, logger.Component("wizard"), loc)
	svc.SetExitPaths(cfg.AppointmentsPath, cfg.ClinicsPath)
	wizardHandler := wizard.NewHandler(svc, logger.Component("wizard"))

	r := server.New(&server.Config{
		Logger:             logger,
		WizardHandler:      wizardHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		DemoBackend:        demoRoutes,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SubmitRateLimit:    5,
		SubmitBurst:        20,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
