// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/trailrace")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadRequiresSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("JWT_SECRET", "")

	_, err := load("", "")
	if err == nil {
		t.Fatal("expected error for missing secret")
	}
	if !strings.Contains(err.Error(), "AUTH_SECRET") {
		t.Fatalf("error = %v, want mention of AUTH_SECRET", err)
	}
}

func TestLoadProductionRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", "short")
	t.Setenv("ENVIRONMENT", "production")

	if _, err := load("", ""); err == nil {
		t.Fatal("expected short secret to be rejected in production")
	}
}

func TestLoadDefaultsAndAdminList(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", strings.Repeat("s", 40))
	t.Setenv("ADMIN_EMAILS", " Root@Example.com, ops@example.com ,,")

	c, err := load("", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", c.Auth.TokenTTL)
	}
	if c.Auth.CookieName != "auth-token" {
		t.Errorf("CookieName = %q, want auth-token", c.Auth.CookieName)
	}
	want := []string{"Root@Example.com", "ops@example.com"}
	if len(c.Auth.AdminEmails) != len(want) {
		t.Fatalf("AdminEmails = %v, want %v", c.Auth.AdminEmails, want)
	}
	for i := range want {
		if c.Auth.AdminEmails[i] != want[i] {
			t.Errorf("AdminEmails[%d] = %q, want %q", i, c.Auth.AdminEmails[i], want[i])
		}
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", strings.Repeat("s", 40))

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  port: 9090\nauth:\n  admin_emails:\n    - lead@example.com\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := load(path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", c.Server.Port)
	}
	if len(c.Auth.AdminEmails) != 1 || c.Auth.AdminEmails[0] != "lead@example.com" {
		t.Errorf("AdminEmails = %v", c.Auth.AdminEmails)
	}
}

func TestEventsRequireURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", strings.Repeat("s", 40))
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "")

	if _, err := load("", ""); err == nil {
		t.Fatal("expected error when events enabled without broker url")
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", strings.Repeat("s", 40))
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	c, err := load("", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"10.0.0.0/8", "192.168.1.10"}
	if len(c.Server.TrustedProxies) != len(want) {
		t.Fatalf("TrustedProxies = %v, want %v", c.Server.TrustedProxies, want)
	}
	for i := range want {
		if c.Server.TrustedProxies[i] != want[i] {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, c.Server.TrustedProxies[i], want[i])
		}
	}
}

func TestLoadTrustedProxiesDefaultsEmpty(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", strings.Repeat("s", 40))
	t.Setenv("TRUSTED_PROXIES", "")

	c, err := load("", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Server.TrustedProxies) != 0 {
		t.Fatalf("TrustedProxies = %v, want none", c.Server.TrustedProxies)
	}
}

func TestLoadRejectsMalformedTrustedProxy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SECRET", strings.Repeat("s", 40))
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,not-an-ip")

	_, err := load("", "")
	if err == nil {
		t.Fatal("expected malformed proxy entry to be rejected")
	}
	if !strings.Contains(err.Error(), "trusted_proxies") {
		t.Fatalf("error = %v, want mention of trusted_proxies", err)
	}
}
