package findercmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-activity-finder/internal/commands"
	"github.com/goliatone/go-activity-finder/internal/finder"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// CommandRegistry is the registration contract used when wiring handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the handlers built by RegisterCommands.
type HandlerSet struct {
	Place               *PlaceBlockHandler
	Remove              *RemoveBlockHandler
	Submit              *SubmitBlockSettingsHandler
	SaveSettings        *SaveSettingsHandler
	InvalidateFacetData *InvalidateFacetDataHandler
}

// RegisterCommands builds every activity finder handler and registers them
// with reg when it is non-nil.
func RegisterCommands(reg CommandRegistry, service finder.Service, provider interfaces.LoggerProvider, gates FeatureGates) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("activity finder command registration: service is nil")
	}
	logger := commands.CommandLogger(provider, "finder")

	set := &HandlerSet{
		Place:               NewPlaceBlockHandler(service, logger, gates),
		Remove:              NewRemoveBlockHandler(service, logger, gates),
		Submit:              NewSubmitBlockSettingsHandler(service, logger, gates),
		SaveSettings:        NewSaveSettingsHandler(service, logger, gates),
		InvalidateFacetData: NewInvalidateFacetDataHandler(service, logger, gates),
	}
	if reg == nil {
		return set, nil
	}
	for _, handler := range []any{set.Place, set.Remove, set.Submit, set.SaveSettings, set.InvalidateFacetData} {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// RegisterFacetRefreshCron schedules facet data invalidation so builds pick up
// new backend data.
func RegisterFacetRefreshCron(reg CronRegistrar, handler *InvalidateFacetDataHandler, cfg command.HandlerConfig) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), InvalidateFacetDataCommand{})
	})
}
