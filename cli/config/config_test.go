package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paragrep.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
workers: 8
logfile: /var/log/paragrep.csv
notify:
  webhook:
    url: https://hooks.example.com/scan
    headers:
      X-Token: secret
  redis:
    url: redis://localhost:6379
    channel: scans:done
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Logfile != "/var/log/paragrep.csv" {
		t.Errorf("Logfile = %q", cfg.Logfile)
	}
	if cfg.Notify.Webhook.URL != "https://hooks.example.com/scan" {
		t.Errorf("Webhook.URL = %q", cfg.Notify.Webhook.URL)
	}
	if cfg.Notify.Webhook.Headers["X-Token"] != "secret" {
		t.Errorf("Webhook.Headers = %v", cfg.Notify.Webhook.Headers)
	}
	if cfg.Notify.Redis.Channel != "scans:done" {
		t.Errorf("Redis.Channel = %q", cfg.Notify.Redis.Channel)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Workers != 0 || cfg.Logfile != "" {
		t.Errorf("empty config = %+v, want zero values", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "workers: [not an int\n")
	if _, err := Load(path); err == nil {
		t.Error("Load of invalid YAML should fail")
	}
}

func TestLoad_WorkersOutOfRange(t *testing.T) {
	path := writeConfig(t, "workers: 99\n")
	if _, err := Load(path); err == nil {
		t.Error("Load with workers out of range should fail")
	}
}
