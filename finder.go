package activityfinder

import (
	"github.com/goliatone/go-activity-finder/internal/backend"
	findercmd "github.com/goliatone/go-activity-finder/internal/commands/finder"
	"github.com/goliatone/go-activity-finder/internal/di"
	"github.com/goliatone/go-activity-finder/internal/finder"
	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/internal/settings"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// FinderService exports the activity finder block service contract.
type FinderService = finder.Service

// Block exports the placed block record.
type Block = finder.Block

// RenderArray exports the view-model handed to the block template.
type RenderArray = finder.RenderArray

// PlaceBlockInput exports the block placement input.
type PlaceBlockInput = finder.PlaceBlockInput

// SubmitInput exports the settings form submission input.
type SubmitInput = finder.SubmitInput

// Settings exports the activity finder settings object.
type Settings = settings.Settings

// SettingsService exports the settings service.
type SettingsService = *settings.Service

// MediaItem exports a media library entry.
type MediaItem = media.Item

// MediaRepository exports the media library repository contract.
type MediaRepository = media.ItemRepository

// FacetBackend exports the facet backend contract.
type FacetBackend = interfaces.FacetBackend

// BackendFactory exports the backend registry factory signature.
type BackendFactory = backend.Factory

// CommandHandlers exports the registered command handlers.
type CommandHandlers = *findercmd.HandlerSet

// Option exports the container override type.
type Option = di.Option

// Module represents the top level activity finder runtime façade.
type Module struct {
	container *di.Container
}

// New constructs the module from cfg. The embedded migrations are applied to
// SQL storage unless an option supplies a different tree.
func New(cfg Config, opts ...Option) (*Module, error) {
	all := append([]Option{di.WithMigrations(migrationsFS)}, opts...)
	container, err := di.NewContainer(cfg, all...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Finder returns the block service.
func (m *Module) Finder() FinderService {
	return m.container.FinderService()
}

// Settings returns the settings service.
func (m *Module) Settings() SettingsService {
	return m.container.SettingsService()
}

// Media returns the media library repository.
func (m *Module) Media() MediaRepository {
	return m.container.MediaRepository()
}

// Backend returns the facet backend selected at construction.
func (m *Module) Backend() FacetBackend {
	return m.container.Backend()
}

// Commands returns the command handlers, or nil when commands are disabled.
func (m *Module) Commands() CommandHandlers {
	return m.container.Commands()
}

// Close releases the database and cache connections.
func (m *Module) Close() error {
	return m.container.Close()
}
