package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Platform backend (clinics, doctors, slots, appointments).
	BackendBaseURL string
	BackendToken   string
	BackendTimeout time.Duration

	// Wizard session storage.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// Paths the wizard redirects to on exit.
	AppointmentsPath string
	ClinicsPath      string

	CORSAllowedOrigins []string

	// Serve the built-in fake backend under /demo and point the
	// wizard at it when no BACKEND_BASE_URL is configured.
	DemoBackend bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", ""),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", ""),
		BackendToken:     getEnv("BACKEND_TOKEN", ""),
		BackendTimeout:   getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:         getEnvAsBool("REDIS_TLS", false),
		SessionTTL:       getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		AppointmentsPath: getEnv("APPOINTMENTS_PATH", "/appointments"),
		ClinicsPath:      getEnv("CLINICS_PATH", "/clinics"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		DemoBackend: getEnvAsBool("DEMO_BACKEND", false),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
