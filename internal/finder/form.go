package finder

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/internal/cachetags"
	"github.com/goliatone/go-activity-finder/internal/form"
	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/mediapicker"
)

// Form returns the settings form of the placement, prefilled with its stored
// configuration.
func (s *service) Form(ctx context.Context, id uuid.UUID) ([]form.Element, error) {
	block, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	picker := s.picker.Element(ctx, FieldBackgroundImage, s.mediaOpts.Browser, block.BackgroundImage, 1, mediapicker.DefaultViewMode)
	return []form.Element{
		form.Checkbox(FieldLegacyMode, "Legacy mode", "Enable legacy mode for activity finder", block.LegacyMode),
		form.Details(picker, "Background image", true),
	}, nil
}

// Submit stores both form fields on the placement. The media selection is
// stored verbatim, unvalidated.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Block, error) {
	block, err := s.Get(ctx, input.BlockID)
	if err != nil {
		return nil, err
	}
	block.LegacyMode = submittedBool(input.Values[FieldLegacyMode])
	block.BackgroundImage = mediapicker.Value(input.Values, FieldBackgroundImage)
	block.UpdatedAt = s.now()

	updated, err := s.blocks.Update(ctx, block)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, BlockCacheTag(block.ID))
	logging.WithBlockContext(s.logger, block.ID.String(), block.Region, "").Info("finder.block.configured",
		"legacy_mode", updated.LegacyMode,
		"background_image", updated.BackgroundImage,
	)
	return updated, nil
}

// InvalidateFacetData drops every build that embeds backend facet data.
func (s *service) InvalidateFacetData(ctx context.Context) error {
	return s.checksum.InvalidateTags(ctx, cachetags.FacetDataTag)
}
