package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8888" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8888", cfg.Addr())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}

	// Second load goes down the read path and agrees with the default.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load() second call error = %v", err)
	}
	if again.Addr() != cfg.Addr() || again.Database.Path != cfg.Database.Path {
		t.Errorf("reloaded config %+v differs from default %+v", again, cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("network:\n  port: 9001\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Network.Port != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Network.Port)
	}
	if cfg.Log.Level != "INFO" {
		t.Errorf("unset Log.Level = %q, want default INFO", cfg.Log.Level)
	}
}
