package finder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/internal/adapters/noop"
	"github.com/goliatone/go-activity-finder/internal/form"
	"github.com/goliatone/go-activity-finder/internal/identity"
	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/internal/mediapicker"
	"github.com/goliatone/go-activity-finder/internal/metrics"
	"github.com/goliatone/go-activity-finder/internal/rendercache"
	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
	"github.com/goliatone/go-activity-finder/internal/settings"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Service exposes the activity finder block: placement, build, cache
// metadata, and the settings form.
type Service interface {
	Place(ctx context.Context, input PlaceBlockInput) (*Block, error)
	Get(ctx context.Context, id uuid.UUID) (*Block, error)
	List(ctx context.Context, region string) ([]*Block, error)
	Remove(ctx context.Context, id uuid.UUID) error

	Build(ctx context.Context, id uuid.UUID) (*RenderArray, error)
	BuildBlock(ctx context.Context, block *Block) (*RenderArray, error)
	CacheTags(id uuid.UUID) []string
	CacheMetadata(id uuid.UUID) CacheMetadata

	Form(ctx context.Context, id uuid.UUID) ([]form.Element, error)
	Submit(ctx context.Context, input SubmitInput) (*Block, error)

	SaveSettings(ctx context.Context, data map[string]any) (settings.Settings, error)
	InvalidateFacetData(ctx context.Context) error
}

// SettingsStore loads and saves the activity finder settings object.
type SettingsStore interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, data map[string]any) (settings.Settings, error)
}

// PlaceBlockInput describes a new block placement. A nil ID derives a
// deterministic one from Region and Label.
type PlaceBlockInput struct {
	ID              uuid.UUID
	Region          string
	Label           string
	LegacyMode      bool
	BackgroundImage string
}

// SubmitInput carries the submitted settings form values of a block.
type SubmitInput struct {
	BlockID uuid.UUID
	Values  map[string]any
}

var (
	ErrBlockIDRequired         = errors.New("finder: block id required")
	ErrBlockRegionRequired     = errors.New("finder: block region required")
	ErrBlockExists             = errors.New("finder: block already placed")
	ErrBlockRepositoryRequired = errors.New("finder: block repository required")
	ErrSettingsRequired        = errors.New("finder: settings store required")
	ErrBackendRequired         = errors.New("finder: facet backend required")
	ErrBackendFailed           = errors.New("finder: facet backend failed")
)

// IDGenerator produces identifiers for placements without region and label.
type IDGenerator func() uuid.UUID

// MediaOptions names the media browser and the styles of each breakpoint.
type MediaOptions struct {
	Browser      string
	MobileStyle  string
	DesktopStyle string
}

// CacheOptions configures the cache metadata attached to builds.
type CacheOptions struct {
	Tags     []string
	Contexts []string
	MaxAge   int
}

// ServiceOption configures the finder service.
type ServiceOption func(*service)

// WithClock overrides the time source used by the service.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver wires build telemetry.
func WithObserver(observer interfaces.BuildObserver) ServiceOption {
	return func(s *service) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithMedia wires background image resolution and the form media picker.
func WithMedia(svc media.Service, picker *mediapicker.Picker) ServiceOption {
	return func(s *service) {
		if svc != nil {
			s.media = svc
		}
		if picker != nil {
			s.picker = picker
		}
	}
}

// WithMediaOptions overrides the media browser and breakpoint styles.
func WithMediaOptions(opts MediaOptions) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(opts.Browser) != "" {
			s.mediaOpts.Browser = strings.TrimSpace(opts.Browser)
		}
		if strings.TrimSpace(opts.MobileStyle) != "" {
			s.mediaOpts.MobileStyle = strings.TrimSpace(opts.MobileStyle)
		}
		if strings.TrimSpace(opts.DesktopStyle) != "" {
			s.mediaOpts.DesktopStyle = strings.TrimSpace(opts.DesktopStyle)
		}
	}
}

// WithCacheOptions sets the extra tags, contexts, and max-age of builds.
func WithCacheOptions(opts CacheOptions) ServiceOption {
	return func(s *service) {
		s.cacheOpts = opts
	}
}

// WithTagChecksum wires cache tag invalidation.
func WithTagChecksum(checksum interfaces.CacheTagChecksum) ServiceOption {
	return func(s *service) {
		if checksum != nil {
			s.checksum = checksum
		}
	}
}

// WithRenderCache enables caching of built view-models.
func WithRenderCache(cache *rendercache.Cache) ServiceOption {
	return func(s *service) {
		s.renderCache = cache
	}
}

// WithTheme overrides the template and library resolution.
func WithTheme(theme *Theme) ServiceOption {
	return func(s *service) {
		if theme != nil {
			s.theme = theme
		}
	}
}

type service struct {
	blocks      BlockRepository
	settings    SettingsStore
	backend     interfaces.FacetBackend
	media       media.Service
	picker      *mediapicker.Picker
	mediaOpts   MediaOptions
	cacheOpts   CacheOptions
	checksum    interfaces.CacheTagChecksum
	renderCache *rendercache.Cache
	theme       *Theme
	logger      interfaces.Logger
	observer    interfaces.BuildObserver
	now         func() time.Time
	id          IDGenerator
}

// NewService constructs a finder service. The backend is resolved by the
// caller at composition time.
func NewService(blocks BlockRepository, store SettingsStore, backend interfaces.FacetBackend, opts ...ServiceOption) Service {
	s := &service{
		blocks:   blocks,
		settings: store,
		backend:  backend,
		media:    media.NewNoOpService(),
		picker:   mediapicker.New(nil),
		mediaOpts: MediaOptions{
			Browser:      DefaultBrowser,
			MobileStyle:  DefaultMobileStyle,
			DesktopStyle: DefaultDesktopStyle,
		},
		cacheOpts: CacheOptions{MaxAge: runtimeconfig.CacheMaxAgePermanent},
		checksum:  noop.Checksum(),
		theme:     &Theme{},
		logger:    logging.NoOp(),
		observer:  metrics.NoOp(),
		now:       time.Now,
		id:        uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Place(ctx context.Context, input PlaceBlockInput) (*Block, error) {
	if s.blocks == nil {
		return nil, ErrBlockRepositoryRequired
	}
	region := strings.TrimSpace(input.Region)
	if region == "" {
		return nil, ErrBlockRegionRequired
	}
	label := strings.TrimSpace(input.Label)

	id := input.ID
	if id == uuid.Nil {
		if label != "" {
			id = identity.BlockUUID(region, label)
		} else {
			id = s.id()
		}
	}
	if _, err := s.blocks.GetByID(ctx, id); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBlockExists, id)
	} else if !isNotFound(err) {
		return nil, err
	}

	now := s.now()
	block, err := s.blocks.Create(ctx, &Block{
		ID:              id,
		Region:          region,
		Label:           label,
		LegacyMode:      input.LegacyMode,
		BackgroundImage: strings.TrimSpace(input.BackgroundImage),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}
	logging.WithBlockContext(s.logger, id.String(), region, "").Info("finder.block.placed")
	return block, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Block, error) {
	if s.blocks == nil {
		return nil, ErrBlockRepositoryRequired
	}
	if id == uuid.Nil {
		return nil, ErrBlockIDRequired
	}
	return s.blocks.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, region string) ([]*Block, error) {
	if s.blocks == nil {
		return nil, ErrBlockRepositoryRequired
	}
	return s.blocks.List(ctx, strings.TrimSpace(region))
}

// Remove deletes the placement and its configuration.
func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	block, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blocks.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, BlockCacheTag(id))
	logging.WithBlockContext(s.logger, id.String(), block.Region, "").Info("finder.block.removed")
	return nil
}

// SaveSettings stores the settings object and invalidates every build that
// depends on it.
func (s *service) SaveSettings(ctx context.Context, data map[string]any) (settings.Settings, error) {
	if s.settings == nil {
		return settings.Settings{}, ErrSettingsRequired
	}
	saved, err := s.settings.Save(ctx, data)
	if err != nil {
		return settings.Settings{}, err
	}
	s.invalidate(ctx, SettingsCacheTag)
	return saved, nil
}

func (s *service) invalidate(ctx context.Context, tags ...string) {
	if err := s.checksum.InvalidateTags(ctx, tags...); err != nil {
		s.logger.Warn("finder.cache.invalidate_failed", "tags", tags, "error", err)
	}
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// submittedBool reads a checkbox value.
func submittedBool(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case float64:
		return typed != 0
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(typed))
		if trimmed == "on" || trimmed == "yes" {
			return true
		}
		parsed, err := strconv.ParseBool(trimmed)
		return err == nil && parsed
	default:
		return false
	}
}
