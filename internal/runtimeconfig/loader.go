package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEnvPrefix = "ACTIVITY_FINDER"

// envKeys lists the config keys that can be overridden from the environment.
var envKeys = []string{
	"enabled",
	"settings.backend",
	"settings.disable_search_box",
	"settings.disable_spots_available",
	"media.base_url",
	"media.files_path",
	"cache.enabled",
	"cache.provider",
	"cache.redis.address",
	"cache.redis.password",
	"cache.redis.db",
	"cache.max_age",
	"storage.provider",
	"storage.dsn",
	"theme.name",
	"theme.variant",
	"logging.provider",
	"logging.level",
	"logging.format",
}

// LoaderOption customises Load.
type LoaderOption func(*loader)

type loader struct {
	envPrefix string
	envFiles  []string
}

// WithEnvPrefix overrides the ACTIVITY_FINDER environment prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *loader) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			l.envPrefix = trimmed
		}
	}
}

// WithEnvFiles lists dotenv files loaded before reading the environment.
// Missing files are skipped.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *loader) {
		l.envFiles = append(l.envFiles, paths...)
	}
}

// Load reads configuration from path (YAML, JSON, or TOML, chosen by extension)
// on top of DefaultConfig, applies environment overrides, and validates the
// result. An empty path loads defaults plus environment only.
func Load(path string, opts ...LoaderOption) (Config, error) {
	l := &loader{envPrefix: defaultEnvPrefix, envFiles: []string{".env"}}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("activity finder config: bind env %s: %w", key, err)
		}
	}

	if trimmed := strings.TrimSpace(path); trimmed != "" {
		v.SetConfigFile(trimmed)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("activity finder config: read %s: %w", trimmed, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("activity finder config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *loader) loadEnvFiles() error {
	for _, path := range l.envFiles {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("activity finder config: stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("activity finder config: load %s: %w", path, err)
		}
	}
	return nil
}
