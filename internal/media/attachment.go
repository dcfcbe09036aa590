package media

import (
	"maps"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Attachment normalizes a resolved media asset for the view layer.
type Attachment struct {
	Reference  interfaces.MediaReference `json:"reference"`
	Metadata   interfaces.MediaMetadata  `json:"metadata"`
	Source     *Resource                 `json:"source,omitempty"`
	Renditions map[string]*Resource      `json:"renditions,omitempty"`
}

// Resource captures one representation of a media asset (original or derivative).
type Resource struct {
	URL      string `json:"url"`
	URI      string `json:"uri,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// RenditionURL returns the URL of a named rendition or "".
func (a *Attachment) RenditionURL(name string) string {
	if a == nil || a.Renditions == nil {
		return ""
	}
	if res := a.Renditions[name]; res != nil {
		return res.URL
	}
	return ""
}

// Normalize converts a resolved media asset into an Attachment.
func Normalize(asset *interfaces.MediaAsset) *Attachment {
	if asset == nil {
		return nil
	}

	attachment := &Attachment{
		Reference:  asset.Reference,
		Metadata:   asset.Metadata,
		Renditions: make(map[string]*Resource, len(asset.Renditions)),
	}
	if len(asset.Reference.Attributes) > 0 {
		attachment.Reference.Attributes = maps.Clone(asset.Reference.Attributes)
	}

	if asset.Source != nil {
		attachment.Source = normalizeResource(asset.Source)
	}

	for name, rendition := range asset.Renditions {
		attachment.Renditions[name] = normalizeResource(rendition)
	}

	return attachment
}

func normalizeResource(res *interfaces.MediaResource) *Resource {
	if res == nil {
		return nil
	}
	return &Resource{
		URL:      res.URL,
		URI:      res.URI,
		MimeType: res.MimeType,
		Width:    res.Width,
		Height:   res.Height,
	}
}
