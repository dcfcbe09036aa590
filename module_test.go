package activityfinder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	activityfinder "github.com/goliatone/go-activity-finder"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

func sqliteConfig(t *testing.T) activityfinder.Config {
	t.Helper()
	cfg := activityfinder.DefaultConfig()
	cfg.Storage = activityfinder.StorageConfig{
		Provider: "sqlite",
		DSN:      "file:" + t.Name() + "?mode=memory&cache=shared",
	}
	cfg.Backends.Static = activityfinder.StaticBackendConfig{
		SortOptions: []interfaces.SortOption{
			{Key: "relevance", Label: "Relevance"},
			{Key: "date_asc", Label: "Date"},
		},
		Categories:     []interfaces.Facet{{Label: "Aquatics", Value: "aquatics"}},
		CategoriesType: "single",
	}
	return cfg
}

func TestModuleAppliesEmbeddedMigrationsAndBuilds(t *testing.T) {
	module, err := activityfinder.New(sqliteConfig(t))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	defer module.Close()

	if applied := module.Container().AppliedMigrations(); len(applied) == 0 {
		t.Fatalf("expected embedded migrations to be applied")
	}

	ctx := context.Background()
	item, err := module.Media().Create(ctx, &activityfinder.MediaItem{
		ID:      uuid.New(),
		Bundle:  "image",
		Name:    "Pool",
		FileURI: "public://pool.jpg",
	})
	if err != nil {
		t.Fatalf("create media item: %v", err)
	}

	block, err := module.Finder().Place(ctx, activityfinder.PlaceBlockInput{Region: "content", Label: "Finder"})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	_, err = module.Finder().Submit(ctx, activityfinder.SubmitInput{
		BlockID: block.ID,
		Values: map[string]any{
			"legacy_mode":      "1",
			"background_image": map[string]any{"target_id": "media:" + item.ID.String()},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, err := module.Finder().Build(ctx, block.ID)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !out.LegacyMode {
		t.Fatalf("expected legacy mode after submit")
	}
	if !strings.Contains(out.BackgroundImage.Mobile, "prgf_banner") || !strings.Contains(out.BackgroundImage.Desktop, "prgf_gallery") {
		t.Fatalf("unexpected background image %+v", out.BackgroundImage)
	}
	if len(out.SortOptions) != 2 || out.SortOptions[1].Value != "date_asc" {
		t.Fatalf("unexpected sort options %+v", out.SortOptions)
	}
	if out.CategoriesType != "single" || len(out.Activities) != 1 {
		t.Fatalf("unexpected categories %q %+v", out.CategoriesType, out.Activities)
	}
}

func TestModuleMemoryStorageSkipsMigrations(t *testing.T) {
	module, err := activityfinder.New(activityfinder.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if module.Container().StorageProvider() != nil {
		t.Fatalf("expected no storage provider for memory storage")
	}
	if module.Commands() == nil {
		t.Fatalf("expected commands to be registered")
	}
	current, err := module.Settings().Load(context.Background())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if current.Backend() != activityfinder.BackendStatic {
		t.Fatalf("expected seeded static backend, got %q", current.Backend())
	}
}

func TestConfigValidateRenderCacheRequiresCache(t *testing.T) {
	cfg := activityfinder.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Features.RenderCache = true

	if err := cfg.Validate(); !errors.Is(err, activityfinder.ErrRenderCacheRequiresEnabledCache) {
		t.Fatalf("expected ErrRenderCacheRequiresEnabledCache, got %v", err)
	}
}

func TestConfigValidateSQLStorageRequiresDSN(t *testing.T) {
	cfg := activityfinder.DefaultConfig()
	cfg.Storage.Provider = "postgres"

	if err := cfg.Validate(); !errors.Is(err, activityfinder.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateElasticRequiresAddresses(t *testing.T) {
	cfg := activityfinder.DefaultConfig()
	cfg.Settings.Backend = activityfinder.BackendElastic

	if err := cfg.Validate(); !errors.Is(err, activityfinder.ErrElasticAddressesRequired) {
		t.Fatalf("expected ErrElasticAddressesRequired, got %v", err)
	}
}

func TestLoadConfigReadsFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finder.yaml")
	content := `
settings:
  backend: static
  disable_search_box: true
media:
  base_url: https://ymca.example.org
cache:
  max_age: 300
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FINDER_TEST_MEDIA_FILES_PATH", "files")

	cfg, err := activityfinder.LoadConfig(path, activityfinder.WithEnvPrefix("FINDER_TEST"), activityfinder.WithEnvFiles())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Settings.DisableSearchBox || cfg.Cache.MaxAge != 300 {
		t.Fatalf("expected file values, got %+v %+v", cfg.Settings, cfg.Cache)
	}
	if cfg.Media.BaseURL != "https://ymca.example.org" || cfg.Media.FilesPath != "files" {
		t.Fatalf("unexpected media config %+v", cfg.Media)
	}
	if cfg.Media.MobileStyle != "prgf_banner" {
		t.Fatalf("expected defaults to survive, got %q", cfg.Media.MobileStyle)
	}
}
