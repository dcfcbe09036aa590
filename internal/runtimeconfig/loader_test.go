package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
)

const yamlConfig = `
settings:
  backend: static
  disable_search_box: false
  disable_spots_available: true
  extra:
    ages_expanded: true
backends:
  static:
    categories_type: multiple
    sort_options:
      - key: title__ASC
        label: Sort by title (A-Z)
      - key: title__DESC
        label: Sort by title (Z-A)
    ages:
      - label: "0-2 years"
        value: "0"
media:
  base_url: https://ymca.example.org
  cache_ttl: 2m
cache:
  max_age: 3600
  contexts:
    - url.query_args
`

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_ReadsYAMLOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "activity_finder.yaml", yamlConfig)

	cfg, err := runtimeconfig.Load(path, runtimeconfig.WithEnvFiles(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Settings.DisableSpotsAvailable || cfg.Settings.DisableSearchBox {
		t.Fatalf("unexpected settings flags %+v", cfg.Settings)
	}
	if cfg.Settings.Extra["ages_expanded"] != true {
		t.Fatalf("expected extra settings to decode, got %#v", cfg.Settings.Extra)
	}
	if got := len(cfg.Backends.Static.SortOptions); got != 2 {
		t.Fatalf("expected 2 sort options, got %d", got)
	}
	if cfg.Backends.Static.SortOptions[1].Key != "title__DESC" {
		t.Fatalf("expected sort option order preserved, got %+v", cfg.Backends.Static.SortOptions)
	}
	if cfg.Media.BaseURL != "https://ymca.example.org" {
		t.Fatalf("unexpected base url %q", cfg.Media.BaseURL)
	}
	if cfg.Media.CacheTTL != 2*time.Minute {
		t.Fatalf("expected duration decoding, got %v", cfg.Media.CacheTTL)
	}
	if cfg.Media.MobileStyle != "prgf_banner" {
		t.Fatalf("expected defaults to survive, got %q", cfg.Media.MobileStyle)
	}
	if cfg.Cache.MaxAge != 3600 || len(cfg.Cache.Contexts) != 1 {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ACTIVITY_FINDER_STORAGE_PROVIDER", "sqlite")
	t.Setenv("ACTIVITY_FINDER_STORAGE_DSN", "file:finder.db")

	cfg, err := runtimeconfig.Load("", runtimeconfig.WithEnvFiles())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Provider != "sqlite" || cfg.Storage.DSN != "file:finder.db" {
		t.Fatalf("expected env overrides, got %+v", cfg.Storage)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, "test.env", "AFTEST_THEME_NAME=aurora\n")
	t.Cleanup(func() { _ = os.Unsetenv("AFTEST_THEME_NAME") })

	cfg, err := runtimeconfig.Load("",
		runtimeconfig.WithEnvPrefix("AFTEST"),
		runtimeconfig.WithEnvFiles(envPath),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme.Name != "aurora" {
		t.Fatalf("expected theme from dotenv, got %q", cfg.Theme.Name)
	}
}

func TestLoad_ValidatesResult(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "cache:\n  provider: memcached\n")

	_, err := runtimeconfig.Load(path, runtimeconfig.WithEnvFiles())
	if !errors.Is(err, runtimeconfig.ErrCacheProviderUnknown) {
		t.Fatalf("expected ErrCacheProviderUnknown, got %v", err)
	}
}
