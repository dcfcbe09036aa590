package findercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	placeBlockMessageType          = "activity_finder.block.place"
	removeBlockMessageType         = "activity_finder.block.remove"
	submitBlockSettingsMessageType = "activity_finder.block.submit"
	saveSettingsMessageType        = "activity_finder.settings.save"
	invalidateFacetDataMessageType = "activity_finder.facets.invalidate"
)

// PlaceBlockCommand places a new activity finder block in a region.
type PlaceBlockCommand struct {
	ID              uuid.UUID `json:"id,omitempty"`
	Region          string    `json:"region"`
	Label           string    `json:"label,omitempty"`
	LegacyMode      bool      `json:"legacy_mode"`
	BackgroundImage string    `json:"background_image,omitempty"`
}

// Type implements command.Message.
func (PlaceBlockCommand) Type() string { return placeBlockMessageType }

// Validate ensures a region is supplied.
func (m PlaceBlockCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Region, validation.Required, validation.By(notBlank)),
		validation.Field(&m.Label, validation.Length(0, 255)),
	)
}

// RemoveBlockCommand deletes a placement.
type RemoveBlockCommand struct {
	BlockID uuid.UUID `json:"block_id"`
}

// Type implements command.Message.
func (RemoveBlockCommand) Type() string { return removeBlockMessageType }

// Validate ensures the block id is present.
func (m RemoveBlockCommand) Validate() error {
	return requireBlockID(removeBlockMessageType, m.BlockID)
}

// SubmitBlockSettingsCommand stores the submitted settings form of a block.
type SubmitBlockSettingsCommand struct {
	BlockID uuid.UUID      `json:"block_id"`
	Values  map[string]any `json:"values"`
}

// Type implements command.Message.
func (SubmitBlockSettingsCommand) Type() string { return submitBlockSettingsMessageType }

// Validate ensures the block id is present. Missing values clear both fields.
func (m SubmitBlockSettingsCommand) Validate() error {
	return requireBlockID(submitBlockSettingsMessageType, m.BlockID)
}

// SaveSettingsCommand replaces the activity finder settings object.
type SaveSettingsCommand struct {
	Data map[string]any `json:"data"`
}

// Type implements command.Message.
func (SaveSettingsCommand) Type() string { return saveSettingsMessageType }

// Validate ensures a document is supplied.
func (m SaveSettingsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Data, validation.Required),
	)
}

// InvalidateFacetDataCommand drops every build that embeds backend facet data.
type InvalidateFacetDataCommand struct{}

// Type implements command.Message.
func (InvalidateFacetDataCommand) Type() string { return invalidateFacetDataMessageType }

// Validate satisfies command.Message.
func (InvalidateFacetDataCommand) Validate() error { return nil }

func requireBlockID(messageType string, id uuid.UUID) error {
	if id == uuid.Nil {
		return validation.Errors{
			"block_id": validation.NewError(messageType+".block_id_required", "block_id is required"),
		}
	}
	return nil
}

func notBlank(value any) error {
	str, _ := value.(string)
	if strings.TrimSpace(str) == "" {
		return validation.NewError("validation_blank", "must not be blank")
	}
	return nil
}
