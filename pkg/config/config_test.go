package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.ReportURL != DefaultReportURL {
		t.Errorf("ReportURL = %q", cfg.ReportURL)
	}
	if cfg.ReportMaxAttempts != 3 {
		t.Errorf("ReportMaxAttempts = %d, want 3", cfg.ReportMaxAttempts)
	}
	if cfg.ReportBackoff != time.Second {
		t.Errorf("ReportBackoff = %v, want 1s", cfg.ReportBackoff)
	}
	if cfg.EngagementThreshold != 7 {
		t.Errorf("EngagementThreshold = %d, want 7", cfg.EngagementThreshold)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRAPLINE_API_KEY", "secret-key")
	t.Setenv("TRAPLINE_REPORT_URL", "http://localhost:9999/report")
	t.Setenv("TRAPLINE_ENGAGEMENT_THRESHOLD", "4")
	t.Setenv("TRAPLINE_SESSION_TTL_SECONDS", "60")

	cfg := NewDefaultConfig()

	if cfg.APIKey != "secret-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.ReportURL != "http://localhost:9999/report" {
		t.Errorf("ReportURL = %q", cfg.ReportURL)
	}
	if cfg.EngagementThreshold != 4 {
		t.Errorf("EngagementThreshold = %d, want 4", cfg.EngagementThreshold)
	}
	if cfg.SessionTTL != time.Minute {
		t.Errorf("SessionTTL = %v, want 1m", cfg.SessionTTL)
	}
}

func TestStartupProbeFlag(t *testing.T) {
	if !NewDefaultConfig().StartupProbe {
		t.Error("StartupProbe should default to true")
	}

	t.Setenv("TRAPLINE_STARTUP_PROBE", "false")
	if NewDefaultConfig().StartupProbe {
		t.Error("TRAPLINE_STARTUP_PROBE=false should disable the probe")
	}

	t.Setenv("TRAPLINE_STARTUP_PROBE", "not-a-bool")
	if !NewDefaultConfig().StartupProbe {
		t.Error("unparseable value should keep the default")
	}
}

func TestThresholdClamped(t *testing.T) {
	t.Setenv("TRAPLINE_ENGAGEMENT_THRESHOLD", "0")
	if got := NewDefaultConfig().EngagementThreshold; got != 1 {
		t.Errorf("threshold 0 should clamp to 1, got %d", got)
	}

	t.Setenv("TRAPLINE_ENGAGEMENT_THRESHOLD", "not-a-number")
	if got := NewDefaultConfig().EngagementThreshold; got != 7 {
		t.Errorf("unparseable threshold should keep the default, got %d", got)
	}
}

func TestValidateDevelopment(t *testing.T) {
	t.Setenv("TRAPLINE_ENV", "development")
	t.Setenv("TRAPLINE_API_KEY", "")

	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("development mode should tolerate a missing API key: %v", err)
	}
}

func TestValidateProduction(t *testing.T) {
	t.Setenv("TRAPLINE_ENV", "production")
	t.Setenv("TRAPLINE_API_KEY", "")

	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("production mode must require TRAPLINE_API_KEY")
	}

	t.Setenv("TRAPLINE_API_KEY", "prod-key")
	cfg = NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with key set: %v", err)
	}
}

func TestValidateEmptyReportURL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ReportURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty report URL should fail validation")
	}
}
