package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("ERJ_CONFIG", "")
	t.Setenv("ERJ_STORAGE_BACKEND", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr default: %q", cfg.HTTPAddr)
	}
	if cfg.StorageBackend != BackendLocal {
		t.Fatalf("backend default: %q", cfg.StorageBackend)
	}
	if cfg.DefaultCountry != "51" || cfg.DefaultOperator != "PL-RJ" {
		t.Fatalf("entry defaults: %q %q", cfg.DefaultCountry, cfg.DefaultOperator)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ERJ_CONFIG", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("ERJ_CONFIG", "")
	t.Setenv("ERJ_STORAGE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadMongoRequiresURI(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("ERJ_CONFIG", "")
	t.Setenv("ERJ_STORAGE_BACKEND", "mongo")
	t.Setenv("ERJ_MONGO_URI", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing mongo uri")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erj.yaml")
	body := "http_addr: \":9090\"\nstorage_backend: memory\ndefault_country: \"81\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("ERJ_STORAGE_BACKEND", "")
	t.Setenv("ERJ_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.StorageBackend != BackendMemory {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.DefaultCountry != "81" {
		t.Fatalf("overlay country not applied: %q", cfg.DefaultCountry)
	}
}
