package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8000 {
		t.Fatalf("expected port 8000, got %d", cfg.HTTP.Port)
	}
	if got := strings.Join(cfg.ModelNames(), ","); got != "DecisionTree,LogisticRegression,GradientBoosting,SVM" {
		t.Fatalf("unexpected model names %s", got)
	}
	if len(cfg.ModelSpecs()) != 4 {
		t.Fatalf("expected 4 specs")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
http:
  port: 9090
  timeout: 5s
models:
  dir: /srv/models
  entries:
    - name: LogisticRegression
      file: lr.json
log:
  level: debug
  format: json
client:
  base_url: http://sepsis.local:9090
  default_model: LogisticRegression
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.HTTP.Timeout != 5*time.Second {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if len(cfg.Models.Entries) != 1 || cfg.Models.Entries[0].File != "lr.json" {
		t.Fatalf("unexpected models %+v", cfg.Models.Entries)
	}
	// fields absent from the file keep their defaults
	if cfg.Models.EncoderFile != "label_encoder.json" || cfg.HTTP.MaxBodyBytes != 1<<20 {
		t.Fatalf("defaults were lost: %+v", cfg.Models)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Client.Timeout != 30*time.Second {
		t.Fatalf("unexpected client timeout %v", cfg.Client.Timeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SEPSIS_HTTP_PORT", "8123")
	t.Setenv("SEPSIS_MODEL_DIR", "/tmp/models")
	t.Setenv("SEPSIS_API_URL", "http://remote:8123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8123 || cfg.Models.Dir != "/tmp/models" || cfg.Client.BaseURL != "http://remote:8123" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("SEPSIS_HTTP_PORT", "eighty")
	if _, err := Load(""); err == nil {
		t.Fatal("expected invalid port error")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
	if _, err := Load(writeConfig(t, "http: [")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }},
		{"timeout", func(c *Config) { c.HTTP.Timeout = 0 }},
		{"body limit", func(c *Config) { c.HTTP.MaxBodyBytes = 0 }},
		{"no dir", func(c *Config) { c.Models.Dir = "" }},
		{"no encoder", func(c *Config) { c.Models.EncoderFile = "" }},
		{"no models", func(c *Config) { c.Models.Entries = nil }},
		{"duplicate", func(c *Config) { c.Models.Entries[1].Name = c.Models.Entries[0].Name }},
		{"path unsafe", func(c *Config) { c.Models.Entries[0].Name = "a/b" }},
		{"missing file", func(c *Config) { c.Models.Entries[0].File = "" }},
		{"client timeout", func(c *Config) { c.Client.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
