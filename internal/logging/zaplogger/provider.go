package zaplogger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Config captures the options exposed by the zap adapter.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// FromConfig maps the runtime logging section onto the adapter config.
func FromConfig(cfg runtimeconfig.LoggingConfig) Config {
	return Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
	}
}

// Provider hands out named zap loggers.
type Provider struct {
	root *zap.Logger
}

// NewProvider builds a zap logger from cfg. JSON output uses the production
// preset, console output the development one.
func NewProvider(cfg Config) (*Provider, error) {
	var zcfg zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		zcfg = zap.NewProductionConfig()
	case "console":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("logging: unsupported zap format %q", cfg.Format)
	}

	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zcfg.DisableCaller = !cfg.AddSource

	root, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &Provider{root: root}, nil
}

// NewProviderWithLogger wraps an existing zap logger.
func NewProviderWithLogger(root *zap.Logger) *Provider {
	if root == nil {
		root = zap.NewNop()
	}
	return &Provider{root: root}
}

// GetLogger returns a child logger named after the module.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &adapter{inner: p.root}
	}
	return &adapter{inner: p.root.Named(name)}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.Sync()
}

type adapter struct {
	inner *zap.Logger
}

var _ interfaces.Logger = (*adapter)(nil)
var _ interfaces.FieldsLogger = (*adapter)(nil)

// zap has no trace level.
func (l *adapter) Trace(msg string, args ...any) { l.inner.Debug(msg, toFields(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, toFields(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, toFields(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, toFields(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, toFields(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, toFields(args)...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &adapter{inner: l.inner.With(mapToFields(fields)...)}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return l.WithFields(logging.ContextFields(ctx))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// toFields converts alternating key/value args. A trailing value without a key
// is recorded under "extra".
func toFields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			out = append(out, zap.Any("extra", args[i]))
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		out = append(out, zap.Any(key, args[i+1]))
	}
	return out
}

func mapToFields(fields map[string]any) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
