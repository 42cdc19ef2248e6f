package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "4444" {
		t.Errorf("Port = %s, want 4444", cfg.Port)
	}
	if cfg.IsProduction() {
		t.Error("default env should not be production")
	}
	if cfg.SessionTTL != 0 {
		t.Errorf("SessionTTL = %v, want 0", cfg.SessionTTL)
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("DatabaseDSN = %q, want empty", cfg.DatabaseDSN)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %v/%d, want 5/10", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "72h")
	t.Setenv("MAIL_SERVICE", "gmail")
	t.Setenv("MAIL_PORT", "465")
	t.Setenv("FRONTEND_URL", "https://shop.example.com")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.SessionTTL != 72*time.Hour {
		t.Errorf("SessionTTL = %v, want 72h", cfg.SessionTTL)
	}
	if cfg.Mail.Service != "gmail" || cfg.Mail.Port != 465 {
		t.Errorf("Mail = %+v", cfg.Mail)
	}
	if cfg.FrontendURL != "https://shop.example.com" {
		t.Errorf("FrontendURL = %s", cfg.FrontendURL)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "production")

	if _, err := Load(); !errors.Is(err, ErrDefaultSecret) {
		t.Fatalf("Load() error = %v, want ErrDefaultSecret", err)
	}

	t.Setenv("APP_SECRET", "a-real-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with secret error = %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "negative ttl", key: "SESSION_TTL", val: "-1h"},
		{name: "zero burst", key: "RATE_LIMIT_BURST", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore Chdir(%q): %v", prev, err)
		}
	})
}
