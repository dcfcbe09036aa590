package activityfinder

import "github.com/goliatone/go-activity-finder/internal/runtimeconfig"

var (
	ErrSettingsBackendRequired         = runtimeconfig.ErrSettingsBackendRequired
	ErrRenderCacheRequiresEnabledCache = runtimeconfig.ErrRenderCacheRequiresEnabledCache
	ErrCacheProviderUnknown            = runtimeconfig.ErrCacheProviderUnknown
	ErrRedisAddressRequired            = runtimeconfig.ErrRedisAddressRequired
	ErrCacheMaxAgeInvalid              = runtimeconfig.ErrCacheMaxAgeInvalid
	ErrStorageProviderUnknown          = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired              = runtimeconfig.ErrStorageDSNRequired
	ErrMediaStylesRequired             = runtimeconfig.ErrMediaStylesRequired
	ErrMediaBaseURLRequired            = runtimeconfig.ErrMediaBaseURLRequired
	ErrElasticAddressesRequired        = runtimeconfig.ErrElasticAddressesRequired
	ErrLoggingProviderRequired         = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown          = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid             = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid            = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	SettingsConfig       = runtimeconfig.SettingsConfig
	BackendsConfig       = runtimeconfig.BackendsConfig
	StaticBackendConfig  = runtimeconfig.StaticBackendConfig
	ElasticBackendConfig = runtimeconfig.ElasticBackendConfig
	MediaConfig          = runtimeconfig.MediaConfig
	CacheConfig          = runtimeconfig.CacheConfig
	RedisConfig          = runtimeconfig.RedisConfig
	StorageConfig        = runtimeconfig.StorageConfig
	ThemeConfig          = runtimeconfig.ThemeConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
	LoaderOption         = runtimeconfig.LoaderOption
)

const (
	BackendStatic        = runtimeconfig.BackendStatic
	BackendElastic       = runtimeconfig.BackendElastic
	CacheMaxAgePermanent = runtimeconfig.CacheMaxAgePermanent
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a config file, .env files and environment overrides on
// top of DefaultConfig.
func LoadConfig(path string, opts ...LoaderOption) (Config, error) {
	return runtimeconfig.Load(path, opts...)
}

// WithEnvPrefix sets the prefix of environment overrides.
func WithEnvPrefix(prefix string) LoaderOption {
	return runtimeconfig.WithEnvPrefix(prefix)
}

// WithEnvFiles loads the given .env files before reading the environment.
func WithEnvFiles(paths ...string) LoaderOption {
	return runtimeconfig.WithEnvFiles(paths...)
}
