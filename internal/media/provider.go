package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// LibraryProvider resolves media library items into assets with one
// rendition per requested image style.
type LibraryProvider struct {
	items  ItemRepository
	styles *ImageStyles
}

var _ interfaces.MediaProvider = (*LibraryProvider)(nil)

// NewLibraryProvider constructs a provider over items and styles.
func NewLibraryProvider(items ItemRepository, styles *ImageStyles) *LibraryProvider {
	return &LibraryProvider{items: items, styles: styles}
}

// Resolve loads the referenced item. The reference ID may be a bare UUID or a
// picker reference ("media:<id>").
func (p *LibraryProvider) Resolve(ctx context.Context, req interfaces.MediaResolveRequest) (*interfaces.MediaAsset, error) {
	if p.items == nil || p.styles == nil {
		return nil, ErrProviderUnavailable
	}
	id, err := referenceID(req.Reference)
	if err != nil {
		return nil, err
	}
	item, err := p.items.GetByID(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
		}
		return nil, err
	}

	asset := &interfaces.MediaAsset{
		Reference: interfaces.MediaReference{
			ID:         item.ID.String(),
			Path:       item.FileURI,
			Collection: item.Bundle,
		},
		Metadata: interfaces.MediaMetadata{
			ID:        item.ID.String(),
			Bundle:    item.Bundle,
			Name:      item.Name,
			AltText:   item.Alt,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		},
	}

	if req.IncludeSource {
		sourceURL, err := p.styles.SourceURL(item.FileURI)
		if err != nil {
			return nil, err
		}
		asset.Source = &interfaces.MediaResource{
			URL:      sourceURL,
			URI:      item.FileURI,
			MimeType: item.MimeType,
			Width:    item.Width,
			Height:   item.Height,
		}
	}

	if len(req.Renditions) > 0 {
		asset.Renditions = make(map[string]*interfaces.MediaResource, len(req.Renditions))
		for _, style := range req.Renditions {
			styleURL, err := p.styles.URL(style, item.FileURI)
			if err != nil {
				if errors.Is(err, ErrImageStyleNotFound) {
					continue
				}
				return nil, err
			}
			asset.Renditions[style] = &interfaces.MediaResource{
				URL:      styleURL,
				URI:      item.FileURI,
				MimeType: item.MimeType,
			}
		}
	}
	return asset, nil
}

// ResolveBatch resolves every request, keyed by reference ID. Missing items
// are skipped.
func (p *LibraryProvider) ResolveBatch(ctx context.Context, reqs []interfaces.MediaResolveRequest) (map[string]*interfaces.MediaAsset, error) {
	result := make(map[string]*interfaces.MediaAsset, len(reqs))
	for _, req := range reqs {
		asset, err := p.Resolve(ctx, req)
		if err != nil {
			if errors.Is(err, ErrAssetNotFound) {
				continue
			}
			return nil, err
		}
		result[req.Reference.ID] = asset
	}
	return result, nil
}

// Invalidate is a no-op; derivatives are addressed by URL and never stored here.
func (p *LibraryProvider) Invalidate(context.Context, ...interfaces.MediaReference) error {
	return nil
}

func referenceID(ref interfaces.MediaReference) (uuid.UUID, error) {
	raw := strings.TrimSpace(ref.ID)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: empty", ErrInvalidReference)
	}
	if strings.HasPrefix(raw, ReferencePrefix) {
		return ParseReference(raw)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}
	return id, nil
}
