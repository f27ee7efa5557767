package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.DeepSeek.BaseURL != "https://api.deepseek.com/v1" || cfg.DeepSeek.Model != "deepseek-chat" {
		t.Errorf("deepseek defaults: %+v", cfg.DeepSeek)
	}
	if cfg.ChatTimeout() != 30*time.Second {
		t.Errorf("chat timeout = %s", cfg.ChatTimeout())
	}
	if cfg.Scholar.BaseURL != "https://api.semanticscholar.org" || cfg.ScholarTimeout() != 10*time.Second {
		t.Errorf("scholar defaults: %+v", cfg.Scholar)
	}
	if cfg.Breaker.FailureThreshold != 5 || cfg.BreakerCooldown() != 60*time.Second {
		t.Errorf("breaker defaults: %+v", cfg.Breaker)
	}
	if cfg.Limits.MinTextChars != 10 || cfg.Limits.MaxTextChars != 50000 || cfg.Limits.DefaultQuota != 5 {
		t.Errorf("limit defaults: %+v", cfg.Limits)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: verifier
  password: secret
  name: citations
deepseek:
  apiKey: file-key
  timeoutSeconds: 45
breaker:
  failureThreshold: 3
  cooldownSeconds: 120
limits:
  defaultQuota: 20
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Database.Driver != "postgres" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ChatTimeout() != 45*time.Second {
		t.Errorf("chat timeout = %s", cfg.ChatTimeout())
	}
	if cfg.Breaker.FailureThreshold != 3 || cfg.BreakerCooldown() != 120*time.Second {
		t.Errorf("breaker = %+v", cfg.Breaker)
	}
	if cfg.Limits.DefaultQuota != 20 {
		t.Errorf("default quota = %d", cfg.Limits.DefaultQuota)
	}
	want := "host=db.internal port=5432 user=verifier password=secret dbname=citations sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("postgres dsn = %q", got)
	}
}

func TestLoadEnvFallbacks(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "env-key")
	t.Setenv("ADMIN_SECRET", "env-admin")

	cfg, err := Load(writeConfig(t, "server:\n  port: 8081\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DeepSeek.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.DeepSeek.APIKey)
	}
	if cfg.Admin.Token != "env-admin" {
		t.Errorf("admin token = %q", cfg.Admin.Token)
	}
}

func TestMySQLDSN(t *testing.T) {
	var cfg Config
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 3306
	cfg.Database.Name = "verifier"
	want := "u:p@tcp(localhost:3306)/verifier?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != want {
		t.Errorf("dsn = %q", got)
	}
}
