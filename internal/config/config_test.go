package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 10001 {
		t.Errorf("Port = %d, want 10001", cfg.Server.Port)
	}
	if cfg.Client.PollInterval != 4*time.Second {
		t.Errorf("PollInterval = %s, want 4s", cfg.Client.PollInterval)
	}
	if cfg.Secrets.Backend != "auto" {
		t.Errorf("Backend = %q, want auto", cfg.Secrets.Backend)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9000
client:
  poll_interval: 2s
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Client.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %s, want 2s", cfg.Client.PollInterval)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Monitor.LivenessInterval != 5*time.Second {
		t.Errorf("LivenessInterval = %s, want default", cfg.Monitor.LivenessInterval)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
