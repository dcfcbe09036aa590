package finder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/internal/rendercache"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Build loads the placement and assembles its view-model.
func (s *service) Build(ctx context.Context, id uuid.UUID) (*RenderArray, error) {
	block, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.BuildBlock(ctx, block)
}

// BuildBlock assembles the view-model of block. Backend failures are
// returned; an unresolvable background image yields empty URLs.
func (s *service) BuildBlock(ctx context.Context, block *Block) (*RenderArray, error) {
	if block == nil {
		return nil, ErrBlockIDRequired
	}
	start := s.now()
	view, err := s.build(ctx, block)
	s.observer.ObserveBuild(block.ID.String(), s.now().Sub(start), err)
	return view, err
}

func (s *service) build(ctx context.Context, block *Block) (*RenderArray, error) {
	if s.backend == nil {
		return nil, ErrBackendRequired
	}
	if s.settings == nil {
		return nil, ErrSettingsRequired
	}
	meta := s.CacheMetadata(block.ID)
	logger := logging.WithBlockContext(s.logger, block.ID.String(), block.Region, "")

	var (
		cacheKey      string
		cacheChecksum int64
	)
	if s.renderCache != nil && meta.MaxAge != 0 {
		cacheKey = renderKey(block, meta.Contexts)
		var cached RenderArray
		hit, err := s.renderCache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logger.Debug("finder.render_cache.read_failed", "error", err)
		}
		s.observer.ObserveRenderCache(hit)
		if hit {
			return &cached, nil
		}
		if cacheChecksum, err = s.renderCache.Checksum(ctx, meta.Tags); err != nil {
			logger.Debug("finder.render_cache.checksum_failed", "error", err)
			cacheKey = ""
		}
	}

	current, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("finder: load settings: %w", err)
	}
	facets, err := s.fetchFacets(ctx)
	if err != nil {
		return nil, err
	}

	view := &RenderArray{
		Theme:                    s.theme.Template(),
		Ages:                     facets.ages,
		Days:                     facets.days,
		Times:                    facets.times,
		DaysTimes:                facets.daysTimes,
		Categories:               facets.categories,
		CategoriesType:           facets.categoriesType,
		Activities:               facets.categories,
		Locations:                facets.locations,
		IsSearchBoxDisabled:      current.DisableSearchBox(),
		IsSpotsAvailableDisabled: current.DisableSpotsAvailable(),
		ExpanderSectionsConfig:   current.RawData(),
		SortOptions:              ReshapeSortOptions(facets.sortOptions),
		LegacyMode:               block.LegacyMode,
		BackgroundImage:          s.backgroundImage(ctx, block, logger),
		Attached:                 Attached{Library: []string{s.theme.Library()}},
		Cache:                    meta,
	}

	if cacheKey != "" {
		if err := s.renderCache.SetWithChecksum(ctx, cacheKey, meta.Tags, cacheChecksum, meta.MaxAge, view); err != nil {
			logger.Debug("finder.render_cache.write_failed", "error", err)
		}
	}
	return view, nil
}

// renderKey varies the cache key with the block fields that shape the view,
// so a block built before it is saved never reads the stored block's entry.
func renderKey(block *Block, contexts []string) string {
	variant := xxhash.Sum64String(fmt.Sprintf("%t|%s", block.LegacyMode, strings.TrimSpace(block.BackgroundImage)))
	return rendercache.Key(block.ID.String(), contexts) + "#" + strconv.FormatUint(variant, 16)
}

type facetData struct {
	sortOptions    []interfaces.SortOption
	ages           []interfaces.Facet
	days           []interfaces.Facet
	times          []interfaces.Facet
	daysTimes      []interfaces.Facet
	categories     []interfaces.Facet
	categoriesType string
	locations      []interfaces.Facet
}

func (s *service) fetchFacets(ctx context.Context) (facetData, error) {
	var (
		data facetData
		err  error
	)
	if data.sortOptions, err = s.backend.SortOptions(ctx); err != nil {
		return data, backendError("sort_options", err)
	}
	if data.ages, err = s.backend.Ages(ctx); err != nil {
		return data, backendError("ages", err)
	}
	if data.days, err = s.backend.DaysOfWeek(ctx); err != nil {
		return data, backendError("days", err)
	}
	if data.times, err = s.backend.PartsOfDay(ctx); err != nil {
		return data, backendError("times", err)
	}
	if data.daysTimes, err = s.backend.DaysTimes(ctx); err != nil {
		return data, backendError("days_times", err)
	}
	if data.categories, err = s.backend.Categories(ctx); err != nil {
		return data, backendError("categories", err)
	}
	if data.categoriesType, err = s.backend.CategoriesType(ctx); err != nil {
		return data, backendError("categories_type", err)
	}
	if data.locations, err = s.backend.Locations(ctx); err != nil {
		return data, backendError("locations", err)
	}
	return data, nil
}

func backendError(facet string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendFailed, facet, err)
}

// backgroundImage resolves the mobile and desktop derivatives of the stored
// reference. Failures are logged and degrade to empty URLs.
func (s *service) backgroundImage(ctx context.Context, block *Block, logger interfaces.Logger) BackgroundImage {
	references := strings.Fields(block.BackgroundImage)
	if len(references) == 0 {
		return BackgroundImage{}
	}
	reference := references[0]
	logger = logging.WithMediaReference(logger, reference)
	mobile, desktop := s.mediaOpts.MobileStyle, s.mediaOpts.DesktopStyle

	bindings := media.BindingSet{
		FieldBackgroundImage: {
			{
				Slot:       FieldBackgroundImage,
				Reference:  interfaces.MediaReference{ID: reference},
				Renditions: []string{mobile, desktop},
				Required:   []string{mobile, desktop},
			},
		},
	}
	resolved, err := s.media.ResolveBindings(ctx, bindings, media.ResolveOptions{})
	var attachment *media.Attachment
	if err == nil {
		if list := resolved[FieldBackgroundImage]; len(list) > 0 {
			attachment = list[0]
		}
	}
	if attachment == nil {
		reason := fallbackReason(err)
		logger.Debug("finder.background_image.unresolved", "reason", reason, "error", err)
		s.observer.ObserveImageFallback(block.ID.String(), reason)
		return BackgroundImage{}
	}
	return BackgroundImage{
		Mobile:  attachment.RenditionURL(mobile),
		Desktop: attachment.RenditionURL(desktop),
	}
}

func fallbackReason(err error) string {
	switch {
	case err == nil:
		return "not_found"
	case errors.Is(err, media.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, media.ErrAssetNotFound):
		return "not_found"
	case errors.Is(err, media.ErrRenditionMissing), errors.Is(err, media.ErrImageStyleNotFound):
		return "rendition_missing"
	case errors.Is(err, media.ErrProviderUnavailable):
		return "media_unavailable"
	default:
		return "error"
	}
}
