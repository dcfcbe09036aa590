package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
	"github.com/goliatone/go-activity-finder/internal/validation"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Option mutates the service configuration.
type Option func(*Service)

// WithSeed sets the document returned when nothing has been stored yet.
func WithSeed(seed Settings) Option {
	return func(s *Service) {
		s.seed = New(seed.data)
	}
}

// WithSchema overrides the JSON schema saved documents must satisfy.
func WithSchema(schema map[string]any) Option {
	return func(s *Service) {
		s.schema = schema
	}
}

// WithLogger overrides the logger used by the service.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTagChecksum invalidates CacheTag whenever the stored document changes.
func WithTagChecksum(checksum interfaces.CacheTagChecksum) Option {
	return func(s *Service) {
		s.checksum = checksum
	}
}

// Service loads and saves the activity finder settings object.
type Service struct {
	repo      Repository
	seed      Settings
	schema    map[string]any
	validator *validation.Validator
	checksum  interfaces.CacheTagChecksum
	logger    interfaces.Logger
}

// NewService constructs a settings service. The schema is compiled eagerly.
func NewService(repo Repository, opts ...Option) (*Service, error) {
	svc := &Service{
		repo:   repo,
		schema: DefaultSchema(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	validator, err := validation.NewValidator(svc.schema)
	if err != nil {
		return nil, fmt.Errorf("settings: compile schema: %w", err)
	}
	svc.validator = validator
	return svc, nil
}

// Load returns the stored settings, or the seed when none were stored.
func (s *Service) Load(ctx context.Context) (Settings, error) {
	if s.repo == nil {
		return Settings{}, ErrRepositoryRequired
	}
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return New(s.seed.data), nil
		}
		return Settings{}, err
	}
	return stored, nil
}

// Save validates data and replaces the stored document.
func (s *Service) Save(ctx context.Context, data map[string]any) (Settings, error) {
	if s.repo == nil {
		return Settings{}, ErrRepositoryRequired
	}
	if err := s.validator.Validate(data); err != nil {
		s.logger.Warn("settings.save.invalid", "error", err)
		return Settings{}, err
	}
	stored, err := s.repo.Upsert(ctx, New(data))
	if err != nil {
		return Settings{}, err
	}
	s.logger.Debug("settings.save.completed", "backend", stored.Backend())
	s.invalidate(ctx)
	return stored, nil
}

// Reset removes the stored document so Load falls back to the seed.
func (s *Service) Reset(ctx context.Context) error {
	if s.repo == nil {
		return ErrRepositoryRequired
	}
	if err := s.repo.Delete(ctx); err != nil && !errors.Is(err, ErrSettingsNotFound) {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.checksum == nil {
		return
	}
	if err := s.checksum.InvalidateTags(ctx, CacheTag); err != nil {
		s.logger.Warn("settings.cache.invalidate_failed", "tag", CacheTag, "error", err)
	}
}

// Subscribe relays repository change events.
func (s *Service) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if s.repo == nil {
		return nil, ErrRepositoryRequired
	}
	return s.repo.Subscribe(ctx)
}

// FromConfig builds the seed document from runtime configuration. Extra keys
// are copied first so the typed fields always win.
func FromConfig(cfg runtimeconfig.SettingsConfig) Settings {
	data := make(map[string]any, len(cfg.Extra)+3)
	for key, value := range cfg.Extra {
		data[key] = value
	}
	data[KeyBackend] = cfg.Backend
	data[KeyDisableSearchBox] = cfg.DisableSearchBox
	data[KeyDisableSpotsAvailable] = cfg.DisableSpotsAvailable
	return Settings{data: data}
}
