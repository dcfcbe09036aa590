package findercmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-activity-finder/internal/commands"
	"github.com/goliatone/go-activity-finder/internal/finder"
	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// ErrModuleDisabled is returned when the activity finder is switched off.
var ErrModuleDisabled = errors.New("activity finder command: module disabled")

// FeatureGates exposes the runtime toggle checked before every command.
type FeatureGates struct {
	Enabled func() bool
}

func (g FeatureGates) enabled() bool {
	if g.Enabled == nil {
		return true
	}
	return g.Enabled()
}

// PlaceBlockHandler places blocks through the finder service.
type PlaceBlockHandler struct {
	inner *commands.Handler[PlaceBlockCommand]
}

// NewPlaceBlockHandler constructs a place handler.
func NewPlaceBlockHandler(service finder.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[PlaceBlockCommand]) *PlaceBlockHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg PlaceBlockCommand) error {
		if !gates.enabled() {
			return ErrModuleDisabled
		}
		block, err := service.Place(ctx, finder.PlaceBlockInput{
			ID:              msg.ID,
			Region:          msg.Region,
			Label:           msg.Label,
			LegacyMode:      msg.LegacyMode,
			BackgroundImage: msg.BackgroundImage,
		})
		if err != nil {
			return err
		}
		logging.WithBlockContext(logger, block.ID.String(), block.Region, "").Info("finder.command.block.placed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[PlaceBlockCommand]{
		commands.WithLogger[PlaceBlockCommand](logger),
		commands.WithOperation[PlaceBlockCommand]("finder.block.place"),
	}
	return &PlaceBlockHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[PlaceBlockCommand].
func (h *PlaceBlockHandler) Execute(ctx context.Context, msg PlaceBlockCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RemoveBlockHandler deletes placements.
type RemoveBlockHandler struct {
	inner *commands.Handler[RemoveBlockCommand]
}

// NewRemoveBlockHandler constructs a remove handler.
func NewRemoveBlockHandler(service finder.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RemoveBlockCommand]) *RemoveBlockHandler {
	exec := func(ctx context.Context, msg RemoveBlockCommand) error {
		if !gates.enabled() {
			return ErrModuleDisabled
		}
		return service.Remove(ctx, msg.BlockID)
	}

	handlerOpts := []commands.HandlerOption[RemoveBlockCommand]{
		commands.WithLogger[RemoveBlockCommand](logger),
		commands.WithOperation[RemoveBlockCommand]("finder.block.remove"),
	}
	return &RemoveBlockHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[RemoveBlockCommand].
func (h *RemoveBlockHandler) Execute(ctx context.Context, msg RemoveBlockCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SubmitBlockSettingsHandler stores submitted block settings forms.
type SubmitBlockSettingsHandler struct {
	inner *commands.Handler[SubmitBlockSettingsCommand]
}

// NewSubmitBlockSettingsHandler constructs a form submit handler.
func NewSubmitBlockSettingsHandler(service finder.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SubmitBlockSettingsCommand]) *SubmitBlockSettingsHandler {
	exec := func(ctx context.Context, msg SubmitBlockSettingsCommand) error {
		if !gates.enabled() {
			return ErrModuleDisabled
		}
		_, err := service.Submit(ctx, finder.SubmitInput{BlockID: msg.BlockID, Values: msg.Values})
		return err
	}

	handlerOpts := []commands.HandlerOption[SubmitBlockSettingsCommand]{
		commands.WithLogger[SubmitBlockSettingsCommand](logger),
		commands.WithOperation[SubmitBlockSettingsCommand]("finder.block.submit"),
	}
	return &SubmitBlockSettingsHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[SubmitBlockSettingsCommand].
func (h *SubmitBlockSettingsHandler) Execute(ctx context.Context, msg SubmitBlockSettingsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SaveSettingsHandler replaces the settings object.
type SaveSettingsHandler struct {
	inner *commands.Handler[SaveSettingsCommand]
}

// NewSaveSettingsHandler constructs a settings save handler.
func NewSaveSettingsHandler(service finder.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SaveSettingsCommand]) *SaveSettingsHandler {
	exec := func(ctx context.Context, msg SaveSettingsCommand) error {
		if !gates.enabled() {
			return ErrModuleDisabled
		}
		_, err := service.SaveSettings(ctx, msg.Data)
		return err
	}

	handlerOpts := []commands.HandlerOption[SaveSettingsCommand]{
		commands.WithLogger[SaveSettingsCommand](logger),
		commands.WithOperation[SaveSettingsCommand]("finder.settings.save"),
	}
	return &SaveSettingsHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[SaveSettingsCommand].
func (h *SaveSettingsHandler) Execute(ctx context.Context, msg SaveSettingsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InvalidateFacetDataHandler invalidates the facet data cache tag.
type InvalidateFacetDataHandler struct {
	inner *commands.Handler[InvalidateFacetDataCommand]
}

// NewInvalidateFacetDataHandler constructs a facet invalidation handler.
func NewInvalidateFacetDataHandler(service finder.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[InvalidateFacetDataCommand]) *InvalidateFacetDataHandler {
	exec := func(ctx context.Context, _ InvalidateFacetDataCommand) error {
		if !gates.enabled() {
			return ErrModuleDisabled
		}
		return service.InvalidateFacetData(ctx)
	}

	handlerOpts := []commands.HandlerOption[InvalidateFacetDataCommand]{
		commands.WithLogger[InvalidateFacetDataCommand](logger),
		commands.WithOperation[InvalidateFacetDataCommand]("finder.facets.invalidate"),
		commands.WithTelemetry(commands.DefaultTelemetry[InvalidateFacetDataCommand](nil)),
	}
	return &InvalidateFacetDataHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[InvalidateFacetDataCommand].
func (h *InvalidateFacetDataHandler) Execute(ctx context.Context, msg InvalidateFacetDataCommand) error {
	return h.inner.Execute(ctx, msg)
}
