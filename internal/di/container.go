package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-activity-finder/internal/adapters/cache"
	"github.com/goliatone/go-activity-finder/internal/adapters/noop"
	"github.com/goliatone/go-activity-finder/internal/backend"
	"github.com/goliatone/go-activity-finder/internal/backend/elastic"
	"github.com/goliatone/go-activity-finder/internal/cachetags"
	findercmd "github.com/goliatone/go-activity-finder/internal/commands/finder"
	"github.com/goliatone/go-activity-finder/internal/finder"
	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/logging/gologger"
	"github.com/goliatone/go-activity-finder/internal/logging/zaplogger"
	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/internal/mediapicker"
	"github.com/goliatone/go-activity-finder/internal/metrics"
	"github.com/goliatone/go-activity-finder/internal/rendercache"
	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
	"github.com/goliatone/go-activity-finder/internal/settings"
	"github.com/goliatone/go-activity-finder/internal/storage"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// ErrModuleDisabled is returned when the configuration switches the module off.
var ErrModuleDisabled = errors.New("di: activity finder module disabled")

// Container wires the activity finder from configuration plus overrides.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB        *bun.DB
	storage      interfaces.StorageProvider
	migrationsFS fs.FS
	migrated     []string

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	cache         interfaces.CacheProvider
	redisClient   *redis.Client
	checksum      interfaces.CacheTagChecksum
	renderCache   *rendercache.Cache

	blockRepo    finder.BlockRepository
	settingsRepo settings.Repository
	mediaRepo    media.ItemRepository

	settingsSvc   *settings.Service
	backends      *backend.Registry
	backend       interfaces.FacetBackend
	backendID     string
	mediaProvider interfaces.MediaProvider
	mediaSvc      media.Service
	styles        *media.ImageStyles
	picker        *mediapicker.Picker
	registerer    prometheus.Registerer
	observer      interfaces.BuildObserver
	theme         *finder.Theme
	clock         func() time.Time

	finderSvc       finder.Service
	commandRegistry findercmd.CommandRegistry
	commands        *findercmd.HandlerSet

	ownsDB     bool
	ownsRedis  bool
	optionErrs []error
}

var (
	openDatabase   = storage.Open
	newRedisClient = cache.NewRedisClient
)

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider configured from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database instead of opening Config.Storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMigrations applies the migration tree in fsys to the database.
func WithMigrations(fsys fs.FS) Option {
	return func(c *Container) {
		c.migrationsFS = fsys
	}
}

// WithCache overrides the repository cache used by the Bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the key/value cache used for media and renders.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cache = provider
	}
}

// WithTagChecksum overrides the cache tag checksum store.
func WithTagChecksum(checksum interfaces.CacheTagChecksum) Option {
	return func(c *Container) {
		c.checksum = checksum
	}
}

// WithRedisClient reuses an existing client for the redis cache provider.
func WithRedisClient(client *redis.Client) Option {
	return func(c *Container) {
		c.redisClient = client
	}
}

// WithBackend registers an additional facet backend under id.
func WithBackend(id string, b interfaces.FacetBackend) Option {
	return func(c *Container) {
		if err := c.backends.RegisterBackend(id, b); err != nil {
			c.optionErrs = append(c.optionErrs, err)
		}
	}
}

// WithBackendFactory registers an additional facet backend factory under id.
func WithBackendFactory(id string, factory backend.Factory) Option {
	return func(c *Container) {
		if err := c.backends.Register(id, factory); err != nil {
			c.optionErrs = append(c.optionErrs, err)
		}
	}
}

// WithMediaProvider overrides the media library provider.
func WithMediaProvider(provider interfaces.MediaProvider) Option {
	return func(c *Container) {
		c.mediaProvider = provider
	}
}

// WithMetricsRegisterer selects where Prometheus collectors are registered.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithObserver overrides the build observer.
func WithObserver(observer interfaces.BuildObserver) Option {
	return func(c *Container) {
		c.observer = observer
	}
}

// WithClock overrides the time source of the finder service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithCommandRegistry receives the command handlers when commands are enabled.
func WithCommandRegistry(reg findercmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// WithFinderService replaces the finder service entirely.
func WithFinderService(svc finder.Service) Option {
	return func(c *Container) {
		c.finderSvc = svc
	}
}

// NewContainer validates cfg and wires every collaborator.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, ErrModuleDisabled
	}

	c := &Container{
		Config:   cfg,
		backends: backend.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if err := errors.Join(c.optionErrs...); err != nil {
		return nil, err
	}

	ctx := context.Background()
	steps := []func(context.Context) error{
		c.configureLoggerProvider,
		c.configureStorage,
		c.configureCacheDefaults,
		c.configureCacheProvider,
		c.configureRepositories,
		c.configureSettings,
		c.configureBackend,
		c.configureMedia,
		c.configureMetrics,
		c.configureTheme,
		c.configureFinder,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, errors.Join(err, c.Close())
		}
	}
	return c, nil
}

func (c *Container) configureLoggerProvider(context.Context) error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "zap":
		provider, err := zaplogger.NewProvider(zaplogger.FromConfig(c.Config.Logging))
		if err != nil {
			return fmt.Errorf("di: configure zap logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		provider, err := gologger.NewProvider(gologger.FromConfig(c.Config.Logging))
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil && storage.Provider(c.Config.Storage) != storage.ProviderMemory {
		db, err := openDatabase(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		return nil
	}

	c.storage = storage.NewSQLProvider(c.bunDB.DB)
	if c.migrationsFS == nil {
		return nil
	}
	applied, err := storage.Migrate(ctx, c.storage, c.migrationsFS, dialectName(c.bunDB))
	if err != nil {
		return fmt.Errorf("di: migrate: %w", err)
	}
	c.migrated = applied
	if len(applied) > 0 {
		logging.ModuleLogger(c.loggerProvider, "activity_finder.storage").Info("storage.migrations.applied", "migrations", applied)
	}
	return nil
}

func dialectName(db *bun.DB) string {
	if db.Dialect().Name() == dialect.SQLite {
		return storage.ProviderSQLite
	}
	return storage.ProviderPostgres
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: repository cache: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureCacheProvider(context.Context) error {
	if !c.Config.Cache.Enabled {
		if c.cache == nil {
			c.cache = noop.Cache()
		}
		if c.checksum == nil {
			c.checksum = noop.Checksum()
		}
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Cache.Provider)) {
	case "redis":
		if c.redisClient == nil {
			c.redisClient = newRedisClient(c.Config.Cache.Redis)
			c.ownsRedis = true
		}
		prefix := c.Config.Cache.Redis.Prefix
		if c.cache == nil {
			provider, err := cache.NewRedis(c.redisClient, prefix)
			if err != nil {
				return err
			}
			c.cache = provider
		}
		if c.checksum == nil {
			checksumPrefix := ""
			if prefix != "" {
				checksumPrefix = prefix + "cachetags:"
			}
			checksum, err := cachetags.NewRedisChecksum(c.redisClient, checksumPrefix)
			if err != nil {
				return err
			}
			c.checksum = checksum
		}
	default:
		if c.cache == nil {
			c.cache = cache.NewMemory()
		}
		if c.checksum == nil {
			c.checksum = cachetags.NewMemoryChecksum()
		}
	}
	return nil
}

func (c *Container) configureRepositories(context.Context) error {
	if c.bunDB == nil {
		c.blockRepo = finder.NewMemoryBlockRepository()
		c.settingsRepo = settings.NewMemoryRepository()
		c.mediaRepo = media.NewMemoryItemRepository()
		return nil
	}
	c.blockRepo = finder.NewBunBlockRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.settingsRepo = settings.NewBunRepository(c.bunDB)
	c.mediaRepo = media.NewBunItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	return nil
}

func (c *Container) configureSettings(context.Context) error {
	svc, err := settings.NewService(c.settingsRepo,
		settings.WithSeed(settings.FromConfig(c.Config.Settings)),
		settings.WithLogger(logging.SettingsLogger(c.loggerProvider)),
		settings.WithTagChecksum(c.checksum),
	)
	if err != nil {
		return err
	}
	c.settingsSvc = svc
	return nil
}

// configureBackend registers the bundled backends and resolves the one named
// by the stored settings, falling back to the configured id.
func (c *Container) configureBackend(ctx context.Context) error {
	if !c.backends.Has(runtimeconfig.BackendStatic) {
		static := backend.NewStatic(backend.FacetDataFromConfig(c.Config.Backends.Static))
		if err := c.backends.RegisterBackend(runtimeconfig.BackendStatic, static); err != nil {
			return err
		}
	}
	if len(c.Config.Backends.Elastic.Addresses) > 0 && !c.backends.Has(runtimeconfig.BackendElastic) {
		elasticCfg := c.Config.Backends.Elastic
		logger := logging.BackendLogger(c.loggerProvider)
		err := c.backends.Register(runtimeconfig.BackendElastic, func() (interfaces.FacetBackend, error) {
			client, err := elastic.NewClient(elasticCfg)
			if err != nil {
				return nil, err
			}
			return elastic.New(client, elasticCfg, elastic.WithLogger(logger))
		})
		if err != nil {
			return err
		}
	}

	id := c.Config.Settings.Backend
	if current, err := c.settingsSvc.Load(ctx); err == nil && current.Backend() != "" {
		id = current.Backend()
	}
	resolved, err := c.backends.Resolve(id)
	if err != nil {
		return fmt.Errorf("di: facet backend: %w", err)
	}
	c.backend = resolved
	c.backendID = backend.CanonicalID(id)
	return nil
}

func (c *Container) configureMedia(context.Context) error {
	styles, err := media.NewImageStyles(c.Config.Media)
	if err != nil {
		return fmt.Errorf("di: image styles: %w", err)
	}
	c.styles = styles
	if c.mediaProvider == nil {
		c.mediaProvider = media.NewLibraryProvider(c.mediaRepo, styles)
	}
	logger := logging.MediaLogger(c.loggerProvider)

	mediaOpts := []media.ServiceOption{media.WithLogger(logger)}
	if c.Config.Cache.Enabled {
		mediaOpts = append(mediaOpts, media.WithCache(c.cache, c.Config.Media.CacheTTL))
	}
	c.mediaSvc = media.NewService(c.mediaProvider, mediaOpts...)
	c.picker = mediapicker.New(c.mediaRepo, mediapicker.WithStyles(styles), mediapicker.WithLogger(logger))
	return nil
}

func (c *Container) configureMetrics(context.Context) error {
	if c.observer != nil {
		return nil
	}
	if !c.Config.Features.Metrics {
		c.observer = metrics.NoOp()
		return nil
	}
	observer, err := metrics.NewPrometheus(c.registerer)
	if err != nil {
		return fmt.Errorf("di: metrics: %w", err)
	}
	c.observer = observer
	return nil
}

func (c *Container) configureTheme(context.Context) error {
	theme, err := finder.LoadTheme(c.Config.Theme)
	if err != nil {
		return err
	}
	c.theme = theme
	return nil
}

func (c *Container) configureFinder(context.Context) error {
	if c.Config.Features.RenderCache {
		renders, err := rendercache.New(c.cache, c.checksum)
		if err != nil {
			return err
		}
		c.renderCache = renders
	}
	if c.finderSvc != nil {
		return nil
	}

	opts := []finder.ServiceOption{
		finder.WithLogger(logging.WithBlockContext(logging.BlockLogger(c.loggerProvider), "", "", c.backendID)),
		finder.WithObserver(c.observer),
		finder.WithMedia(c.mediaSvc, c.picker),
		finder.WithMediaOptions(finder.MediaOptions{
			Browser:      c.Config.Media.Browser,
			MobileStyle:  c.Config.Media.MobileStyle,
			DesktopStyle: c.Config.Media.DesktopStyle,
		}),
		finder.WithCacheOptions(finder.CacheOptions{
			Tags:     c.Config.Cache.Tags,
			Contexts: c.Config.Cache.Contexts,
			MaxAge:   c.Config.Cache.MaxAge,
		}),
		finder.WithTagChecksum(c.checksum),
		finder.WithTheme(c.theme),
		finder.WithClock(c.clock),
	}
	if c.renderCache != nil {
		opts = append(opts, finder.WithRenderCache(c.renderCache))
	}
	c.finderSvc = finder.NewService(c.blockRepo, c.settingsSvc, c.backend, opts...)
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	if !c.Config.Features.Commands {
		return nil
	}
	set, err := findercmd.RegisterCommands(c.commandRegistry, c.finderSvc, c.loggerProvider, findercmd.FeatureGates{
		Enabled: func() bool { return c.Config.Enabled },
	})
	if err != nil {
		return err
	}
	c.commands = set
	return nil
}

// FinderService returns the activity finder service.
func (c *Container) FinderService() finder.Service {
	return c.finderSvc
}

// SettingsService returns the settings service.
func (c *Container) SettingsService() *settings.Service {
	return c.settingsSvc
}

// MediaRepository returns the media library repository.
func (c *Container) MediaRepository() media.ItemRepository {
	return c.mediaRepo
}

// MediaPicker returns the form media picker.
func (c *Container) MediaPicker() *mediapicker.Picker {
	return c.picker
}

// BackendRegistry returns the facet backend registry.
func (c *Container) BackendRegistry() *backend.Registry {
	return c.backends
}

// Backend returns the facet backend resolved at composition time.
func (c *Container) Backend() interfaces.FacetBackend {
	return c.backend
}

// StorageProvider returns the SQL provider, or nil for memory storage.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// BunDB returns the database handle, or nil for memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// AppliedMigrations lists the migrations applied while composing.
func (c *Container) AppliedMigrations() []string {
	return append([]string(nil), c.migrated...)
}

// CacheProvider returns the key/value cache.
func (c *Container) CacheProvider() interfaces.CacheProvider {
	return c.cache
}

// TagChecksum returns the cache tag checksum store.
func (c *Container) TagChecksum() interfaces.CacheTagChecksum {
	return c.checksum
}

// Commands returns the registered command handlers, or nil when disabled.
func (c *Container) Commands() *findercmd.HandlerSet {
	return c.commands
}

// LoggerProvider returns the configured logger provider, which may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Close releases the database and redis client the container opened itself.
// Handles supplied through WithBunDB or WithRedisClient stay open.
func (c *Container) Close() error {
	var errs []error
	if c.ownsRedis && c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
		c.ownsRedis = false
	}
	if c.ownsDB && c.bunDB != nil {
		errs = append(errs, c.bunDB.Close())
		c.ownsDB = false
	}
	return errors.Join(errs...)
}
