package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

var ErrSettingsBackendRequired = errors.New("activity finder config: settings backend id is required")
var ErrRenderCacheRequiresEnabledCache = errors.New("activity finder config: render cache feature requires cache to be enabled")
var ErrCacheProviderUnknown = errors.New("activity finder config: cache provider is invalid")
var ErrRedisAddressRequired = errors.New("activity finder config: redis address is required for the redis cache provider")
var ErrCacheMaxAgeInvalid = errors.New("activity finder config: cache max-age must be -1 (permanent) or greater")
var ErrStorageProviderUnknown = errors.New("activity finder config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("activity finder config: storage dsn is required for sql providers")
var ErrMediaStylesRequired = errors.New("activity finder config: mobile and desktop image styles are required")
var ErrMediaBaseURLRequired = errors.New("activity finder config: media base url is required")
var ErrElasticAddressesRequired = errors.New("activity finder config: elasticsearch addresses are required")
var ErrLoggingProviderRequired = errors.New("activity finder config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("activity finder config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("activity finder config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("activity finder config: logging format is invalid")

const (
	// CacheMaxAgePermanent marks build output as cacheable until a tag is invalidated.
	CacheMaxAgePermanent = -1

	BackendStatic  = "static"
	BackendElastic = "elasticsearch"
)

// Config aggregates feature flags and adapter bindings for the activity finder module.
type Config struct {
	Enabled  bool           `mapstructure:"enabled"`
	Settings SettingsConfig `mapstructure:"settings"`
	Backends BackendsConfig `mapstructure:"backends"`
	Media    MediaConfig    `mapstructure:"media"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Features Features       `mapstructure:"features"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SettingsConfig seeds the activity finder settings object when the store is empty.
type SettingsConfig struct {
	Backend               string         `mapstructure:"backend"`
	DisableSearchBox      bool           `mapstructure:"disable_search_box"`
	DisableSpotsAvailable bool           `mapstructure:"disable_spots_available"`
	Extra                 map[string]any `mapstructure:"extra"`
}

// BackendsConfig carries the options of every bundled facet backend. The
// settings object picks which one is used.
type BackendsConfig struct {
	Static  StaticBackendConfig  `mapstructure:"static"`
	Elastic ElasticBackendConfig `mapstructure:"elasticsearch"`
}

// StaticBackendConfig lists facet data served verbatim.
type StaticBackendConfig struct {
	SortOptions    []interfaces.SortOption `mapstructure:"sort_options"`
	Ages           []interfaces.Facet      `mapstructure:"ages"`
	DaysOfWeek     []interfaces.Facet      `mapstructure:"days_of_week"`
	PartsOfDay     []interfaces.Facet      `mapstructure:"parts_of_day"`
	DaysTimes      []interfaces.Facet      `mapstructure:"days_times"`
	Categories     []interfaces.Facet      `mapstructure:"categories"`
	CategoriesType string                  `mapstructure:"categories_type"`
	Locations      []interfaces.Facet      `mapstructure:"locations"`
}

// ElasticBackendConfig points the Elasticsearch backend at a sessions index.
type ElasticBackendConfig struct {
	Addresses      []string                `mapstructure:"addresses"`
	Username       string                  `mapstructure:"username"`
	Password       string                  `mapstructure:"password"`
	Index          string                  `mapstructure:"index"`
	CategoriesType string                  `mapstructure:"categories_type"`
	BucketSize     int                     `mapstructure:"bucket_size"`
	SortOptions    []interfaces.SortOption `mapstructure:"sort_options"`
	Timeout        time.Duration           `mapstructure:"timeout"`
}

// MediaConfig controls background image resolution.
type MediaConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	FilesPath    string        `mapstructure:"files_path"`
	Browser      string        `mapstructure:"browser"`
	MobileStyle  string        `mapstructure:"mobile_style"`
	DesktopStyle string        `mapstructure:"desktop_style"`
	Styles       []string      `mapstructure:"styles"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// CacheConfig captures cache behaviour toggles and the metadata emitted with builds.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	Provider   string        `mapstructure:"provider"`
	Redis      RedisConfig   `mapstructure:"redis"`
	Tags       []string      `mapstructure:"tags"`
	Contexts   []string      `mapstructure:"contexts"`
	MaxAge     int           `mapstructure:"max_age"`
}

// RedisConfig configures the redis cache provider and tag checksum store.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// StorageConfig selects where block placements, settings, and media items live.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// ThemeConfig selects a go-theme manifest used to resolve the block template
// and client library.
type ThemeConfig struct {
	BasePath string `mapstructure:"base_path"`
	Name     string `mapstructure:"name"`
	Variant  string `mapstructure:"variant"`
}

// Features toggles module functionality.
type Features struct {
	RenderCache bool `mapstructure:"render_cache"`
	Metrics     bool `mapstructure:"metrics"`
	Logger      bool `mapstructure:"logger"`
	Commands    bool `mapstructure:"commands"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns defaults for a single-process deployment backed by the
// static facet backend and in-memory storage.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Settings: SettingsConfig{
			Backend: BackendStatic,
		},
		Backends: BackendsConfig{
			Elastic: ElasticBackendConfig{
				Index:      "activity_finder_sessions",
				BucketSize: 100,
				Timeout:    5 * time.Second,
			},
		},
		Media: MediaConfig{
			BaseURL:      "http://localhost",
			FilesPath:    "sites/default/files",
			Browser:      "images_library",
			MobileStyle:  "prgf_banner",
			DesktopStyle: "prgf_gallery",
			Styles:       []string{"prgf_banner", "prgf_gallery"},
			CacheTTL:     5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
			Provider:   "memory",
			MaxAge:     CacheMaxAgePermanent,
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Features: Features{
			Commands: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Settings.Backend) == "" {
		return ErrSettingsBackendRequired
	}
	if cfg.Features.RenderCache && !cfg.Cache.Enabled {
		return ErrRenderCacheRequiresEnabledCache
	}
	if cfg.Cache.MaxAge < CacheMaxAgePermanent {
		return fmt.Errorf("%w: %d", ErrCacheMaxAgeInvalid, cfg.Cache.MaxAge)
	}
	if cfg.Cache.Enabled {
		switch normalize(cfg.Cache.Provider) {
		case "", "memory":
		case "redis":
			if strings.TrimSpace(cfg.Cache.Redis.Address) == "" {
				return ErrRedisAddressRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrCacheProviderUnknown, cfg.Cache.Provider)
		}
	}
	switch normalize(cfg.Storage.Provider) {
	case "", "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if strings.TrimSpace(cfg.Media.BaseURL) == "" {
		return ErrMediaBaseURLRequired
	}
	if strings.TrimSpace(cfg.Media.MobileStyle) == "" || strings.TrimSpace(cfg.Media.DesktopStyle) == "" {
		return ErrMediaStylesRequired
	}
	if normalize(cfg.Settings.Backend) == BackendElastic && len(cfg.Backends.Elastic.Addresses) == 0 {
		return ErrElasticAddressesRequired
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	if provider == "zap" {
		return format == "json" || format == "console"
	}
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
