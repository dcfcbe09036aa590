package interfaces

import (
	"context"
	"time"
)

// MediaProvider supplies metadata and derivative URLs for media items.
type MediaProvider interface {
	// Resolve fetches a single media asset using the supplied request parameters.
	Resolve(ctx context.Context, req MediaResolveRequest) (*MediaAsset, error)
	// ResolveBatch fetches multiple media assets keyed by reference ID.
	ResolveBatch(ctx context.Context, reqs []MediaResolveRequest) (map[string]*MediaAsset, error)
	// Invalidate clears cached lookups for the provided references.
	Invalidate(ctx context.Context, refs ...MediaReference) error
}

// MediaReference identifies a media item within the provider.
type MediaReference struct {
	ID         string            `json:"id,omitempty"`
	Path       string            `json:"path,omitempty"`
	Collection string            `json:"collection,omitempty"`
	Locale     string            `json:"locale,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// MediaResolveRequest controls which parts of an asset should be resolved.
// Renditions name image styles.
type MediaResolveRequest struct {
	Reference     MediaReference
	Renditions    []string
	IncludeSource bool
	Purpose       string
	Context       map[string]string
}

// MediaAsset encapsulates metadata and resolved resources for a media item.
type MediaAsset struct {
	Reference  MediaReference            `json:"reference"`
	Source     *MediaResource            `json:"source,omitempty"`
	Renditions map[string]*MediaResource `json:"renditions,omitempty"`
	Metadata   MediaMetadata             `json:"metadata"`
}

// MediaResource describes a concrete file representation (original or derivative).
type MediaResource struct {
	URL      string `json:"url"`
	URI      string `json:"uri,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// MediaMetadata captures descriptive properties of the media item.
type MediaMetadata struct {
	ID        string    `json:"id"`
	Bundle    string    `json:"bundle,omitempty"`
	Name      string    `json:"name,omitempty"`
	AltText   string    `json:"alt_text,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
