package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FACECONNECT_CONFIG", "")
	t.Setenv("FACECONNECT_STORE_PATH", filepath.Join(t.TempDir(), "session.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:5000/api" {
		t.Fatalf("unexpected api url %q", cfg.APIBaseURL)
	}
	if cfg.Store.Backend != StoreFile {
		t.Fatalf("unexpected store backend %q", cfg.Store.Backend)
	}
	if cfg.UIAddr() != "127.0.0.1:8090" {
		t.Fatalf("unexpected ui addr %q", cfg.UIAddr())
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("FACECONNECT_API_URL", "https://social.example.com/api/")
	t.Setenv("FACECONNECT_REQUEST_TIMEOUT", "3s")
	t.Setenv("FACECONNECT_STORE", "Redis")
	t.Setenv("FACECONNECT_UI_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("FACECONNECT_UI_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://social.example.com/api" {
		t.Fatalf("expected trailing slash trimmed got %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.RequestTimeout)
	}
	if cfg.Store.Backend != StoreRedis {
		t.Fatalf("unexpected backend %q", cfg.Store.Backend)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.UIPort != 8090 {
		t.Fatalf("expected invalid port to fall back got %d", cfg.UIPort)
	}
}

func TestLoadFileWithEnvironmentPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faceconnect.yaml")
	contents := []byte(`
api:
  base_url: http://file.test/api
  timeout: 9s
ui:
  port: 9999
store:
  backend: memory
profile: work
`)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FACECONNECT_CONFIG", path)
	t.Setenv("FACECONNECT_PROFILE", "home")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "http://file.test/api" || cfg.RequestTimeout != 9*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.UIPort != 9999 || cfg.Store.Backend != StoreMemory {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Profile != "home" {
		t.Fatalf("expected env to win over file got %q", cfg.Profile)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("FACECONNECT_STORE", "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store backend")
	}
}
