package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "travelbook-test"
server:
  port: 9000
database:
  path: "test.db"
auth:
  secret: "test-secret"
  token_ttl_days: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "travelbook-test" {
		t.Errorf("expected app name travelbook-test, got %s", cfg.App.Name)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLDays != 3 {
		t.Errorf("expected token ttl 3 days, got %d", cfg.Auth.TokenTTLDays)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_AUTH_SECRET", "from-env")

	yamlContent := `
database:
  path: "test.db"
auth:
  secret: "${TEST_AUTH_SECRET}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Auth.Secret != "from-env" {
		t.Errorf("expected secret from environment, got %s", cfg.Auth.Secret)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Database: DatabaseConfig{Path: "travel.db"},
				Auth:     AuthConfig{Secret: "secret"},
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			cfg: Config{
				Auth: AuthConfig{Secret: "secret"},
			},
			wantErr: true,
		},
		{
			name: "missing auth secret",
			cfg: Config{
				Database: DatabaseConfig{Path: "travel.db"},
			},
			wantErr: true,
		},
		{
			name: "invalid port",
			cfg: Config{
				Database: DatabaseConfig{Path: "travel.db"},
				Auth:     AuthConfig{Secret: "secret"},
				Server:   ServerConfig{Port: 99999},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLDays != 7 {
		t.Errorf("expected default token ttl 7 days, got %d", cfg.Auth.TokenTTLDays)
	}
	if cfg.Monitoring.PrometheusPort != 9090 {
		t.Errorf("expected default prometheus port 9090, got %d", cfg.Monitoring.PrometheusPort)
	}
	if cfg.Exports.Path != "exports" {
		t.Errorf("expected default exports path, got %s", cfg.Exports.Path)
	}
}

func TestTokenTTL(t *testing.T) {
	a := AuthConfig{TokenTTLDays: 2}
	if a.TokenTTL().Hours() != 48 {
		t.Errorf("expected 48h, got %v", a.TokenTTL())
	}

	a = AuthConfig{}
	if a.TokenTTL().Hours() != 168 {
		t.Errorf("expected 168h default, got %v", a.TokenTTL())
	}
}
