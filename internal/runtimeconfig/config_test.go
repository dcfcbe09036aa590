package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Cache.MaxAge != runtimeconfig.CacheMaxAgePermanent {
		t.Fatalf("expected permanent max-age by default, got %d", cfg.Cache.MaxAge)
	}
	if cfg.Media.MobileStyle != "prgf_banner" || cfg.Media.DesktopStyle != "prgf_gallery" {
		t.Fatalf("unexpected default styles %q/%q", cfg.Media.MobileStyle, cfg.Media.DesktopStyle)
	}
}

func TestConfigValidate_RequiresBackendID(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Settings.Backend = " "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSettingsBackendRequired) {
		t.Fatalf("expected ErrSettingsBackendRequired, got %v", err)
	}
}

func TestConfigValidate_RenderCacheNeedsCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Features.RenderCache = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRenderCacheRequiresEnabledCache) {
		t.Fatalf("expected ErrRenderCacheRequiresEnabledCache, got %v", err)
	}
}

func TestConfigValidate_RedisNeedsAddress(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Provider = "redis"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRedisAddressRequired) {
		t.Fatalf("expected ErrRedisAddressRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownCacheProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Provider = "memcached"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheProviderUnknown) {
		t.Fatalf("expected ErrCacheProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeMaxAge(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.MaxAge = -5

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheMaxAgeInvalid) {
		t.Fatalf("expected ErrCacheMaxAgeInvalid, got %v", err)
	}
}

func TestConfigValidate_SQLStorageNeedsDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "postgres"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}

	cfg.Storage.Provider = "mongo"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_ElasticBackendNeedsAddresses(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Settings.Backend = runtimeconfig.BackendElastic

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrElasticAddressesRequired) {
		t.Fatalf("expected ErrElasticAddressesRequired, got %v", err)
	}
}

func TestConfigValidate_MediaStyles(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Media.DesktopStyle = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMediaStylesRequired) {
		t.Fatalf("expected ErrMediaStylesRequired, got %v", err)
	}
}

func TestConfigValidate_LoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "zap"
	cfg.Logging.Format = "pretty"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid for zap pretty, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "pretty"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}
