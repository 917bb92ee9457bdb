// Package config holds the runtime settings for the Trapline gateway. All
// settings come from environment variables with working development defaults;
// production requires the critical secrets to be set explicitly.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultReportURL is the callback endpoint that receives the one-shot scam
// report for a sufficiently engaged session.
const DefaultReportURL = "https://hackathon.guvi.in/api/updateHoneyPotFinalResult"

// Config holds global settings for the Trapline gateway.
// All settings can be configured via environment variables or programmatically.
type Config struct {
	// === Authentication ===
	APIKey string // Inbound x-api-key value (env: TRAPLINE_API_KEY, REQUIRED in production)

	// === Report Delivery ===
	ReportURL         string        // Callback endpoint for final scam reports
	ReportMaxAttempts int           // Delivery attempts per report (default: 3)
	ReportBackoff     time.Duration // Base backoff between attempts, doubled each retry (default: 1s)
	ReportConcurrency int           // Max in-flight report deliveries (default: 50)
	StartupProbe      bool          // Probe the report endpoint at startup (default: true)

	// === Engagement ===
	EngagementThreshold int // Scammer turns before the report fires (default: 7)

	// === Session Management ===
	SessionTTL      time.Duration // Session expiry since last turn (default: 24h)
	CleanupInterval time.Duration // Eviction sweep interval (default: 5m)

	// === Dialogue ===
	TemplatesPath string // Optional YAML template overrides (env: TRAPLINE_TEMPLATES)
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		APIKey: GetEnv("TRAPLINE_API_KEY", ""),

		ReportURL:         GetEnv("TRAPLINE_REPORT_URL", DefaultReportURL),
		ReportMaxAttempts: clampInt(GetEnvInt("TRAPLINE_REPORT_MAX_ATTEMPTS", 3), 1, 10),
		ReportBackoff:     time.Duration(GetEnvInt("TRAPLINE_REPORT_BACKOFF_MS", 1000)) * time.Millisecond,
		ReportConcurrency: clampInt(GetEnvInt("TRAPLINE_REPORT_CONCURRENCY", 50), 1, 1000),
		StartupProbe:      GetEnvBool("TRAPLINE_STARTUP_PROBE", true),

		EngagementThreshold: clampInt(GetEnvInt("TRAPLINE_ENGAGEMENT_THRESHOLD", 7), 1, 100),

		SessionTTL:      time.Duration(GetEnvInt("TRAPLINE_SESSION_TTL_SECONDS", 86400)) * time.Second,
		CleanupInterval: time.Duration(GetEnvInt("TRAPLINE_CLEANUP_INTERVAL_SECONDS", 300)) * time.Second,

		TemplatesPath: GetEnv("TRAPLINE_TEMPLATES", ""),
	}
}

// clampInt ensures a value is within bounds.
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Helper functions for environment variable parsing.
// These are exported for use by other packages.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// RequiredSecret defines a required environment variable for startup validation.
type RequiredSecret struct {
	Name        string // Environment variable name
	Description string // Human-readable description
	Production  bool   // Required in production only (false = required always)
}

// CriticalSecrets returns the list of secrets required for the gateway to operate.
func CriticalSecrets() []RequiredSecret {
	return []RequiredSecret{
		{Name: "TRAPLINE_API_KEY", Description: "API key for gateway authentication", Production: true},
	}
}

// isProduction reports whether TRAPLINE_ENV marks this as a production
// deployment.
func isProduction() bool {
	env := strings.ToLower(os.Getenv("TRAPLINE_ENV"))
	return env == "production" || env == "prod"
}

// Validate checks that all required configuration is present.
// In production mode, this returns an error if critical secrets are missing.
// In development mode, it logs warnings but allows startup for local testing.
func (c *Config) Validate() error {
	prod := isProduction()

	var missing []string
	for _, secret := range CriticalSecrets() {
		if os.Getenv(secret.Name) != "" {
			continue
		}
		if secret.Production && !prod {
			log.Printf("[STARTUP] Warning: %s not set (%s) - inbound auth is disabled", secret.Name, secret.Description)
			continue
		}
		missing = append(missing, secret.Name+" ("+secret.Description+")")
	}

	if c.ReportURL == "" {
		missing = append(missing, "TRAPLINE_REPORT_URL (report callback endpoint)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MustValidate calls Validate and fatally exits if validation fails.
// Call this at startup before starting the server.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}
