package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Storage.MaxBytes != 5*1024*1024 {
		t.Errorf("unexpected default max bytes: %d", cfg.Storage.MaxBytes)
	}
	if cfg.Storage.MaxHistory != 1000 || cfg.Storage.MaxGallery != 500 {
		t.Errorf("unexpected default caps: %d/%d", cfg.Storage.MaxHistory, cfg.Storage.MaxGallery)
	}
	if cfg.Decay.Factor != 0.98 {
		t.Errorf("unexpected default decay factor: %v", cfg.Decay.Factor)
	}

	// The default file was written and loads back identically.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file written: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Storage.Prefix != cfg.Storage.Prefix {
		t.Errorf("reload mismatch: %q vs %q", again.Storage.Prefix, cfg.Storage.Prefix)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	t.Setenv("WORDGOTCHI_BACKEND_URL", "http://localhost:9999")
	t.Setenv("WORDGOTCHI_API_KEY", "env-key")
	t.Setenv("WORDGOTCHI_DATA_DIR", "/tmp/wg-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.BaseURL != "http://localhost:9999" {
		t.Errorf("expected env base url, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.APIKey != "env-key" {
		t.Errorf("expected env api key, got %q", cfg.Backend.APIKey)
	}
	if cfg.DataDir != "/tmp/wg-test" {
		t.Errorf("expected env data dir, got %q", cfg.DataDir)
	}
}

func TestSetAndGetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "storage.batch_size", "25"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.BatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.Storage.BatchSize)
	}

	val, err := GetValue(path, "storage.batch_size")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := val.(float64); !ok || n != 25 {
		t.Errorf("expected 25, got %v", val)
	}
}

func TestSetValueUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}

	if err := SetValue(path, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetValueMasksSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if err := SetValue(path, "backend.api_key", "super-secret-value"); err != nil {
		t.Fatal(err)
	}

	val, err := GetValue(path, "backend.api_key")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := val.(string); !ok || s == "super-secret-value" {
		t.Errorf("expected masked secret, got %v", val)
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": "x", "c": float64(2)},
		"d": true,
	}
	flat := Flatten(nested)
	if flat["a.b"] != "x" || flat["a.c"] != float64(2) || flat["d"] != true {
		t.Errorf("unexpected flatten: %v", flat)
	}

	back := Unflatten(flat)
	inner, ok := back["a"].(map[string]any)
	if !ok || inner["b"] != "x" {
		t.Errorf("unexpected unflatten: %v", back)
	}
}
