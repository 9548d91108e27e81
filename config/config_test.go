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
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
auth:
  jwt_secret: "0123456789abcdef-secret"
scheduling:
  bulk_enroll_workers: 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scheduling.BulkEnrollWorkers != 4 {
		t.Errorf("bulk workers = %d, want 4", cfg.Scheduling.BulkEnrollWorkers)
	}
	if cfg.Scheduling.LockTTL != 10*time.Second {
		t.Errorf("lock ttl = %v, want default 10s", cfg.Scheduling.LockTTL)
	}
	if cfg.Database.Name != "schedease" {
		t.Errorf("db name = %q, want default", cfg.Database.Name)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef-secret"
`)
	t.Setenv("SCHEDEASE_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070 from env", cfg.Server.Port)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:     ServerConfig{Port: 8080},
		Auth:       AuthConfig{JWTSecret: "0123456789abcdef"},
		Scheduling: SchedulingConfig{LockTTL: time.Second, BulkEnrollWorkers: 1},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"no workers", func(c *Config) { c.Scheduling.BulkEnrollWorkers = 0 }, true},
		{"no lock ttl", func(c *Config) { c.Scheduling.LockTTL = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
