package media_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

func TestNormalizeNilAsset(t *testing.T) {
	if media.Normalize(nil) != nil {
		t.Fatalf("expected nil attachment for nil asset")
	}
}

func TestNormalizeClonesState(t *testing.T) {
	now := time.Now().UTC()
	asset := &interfaces.MediaAsset{
		Reference: interfaces.MediaReference{
			ID:         "asset-1",
			Collection: "image",
			Attributes: map[string]string{"focal": "center"},
		},
		Source: &interfaces.MediaResource{
			URL:      "https://cdn.example.com/files/pool.jpg",
			URI:      "public://pool.jpg",
			MimeType: "image/jpeg",
			Width:    1600,
			Height:   900,
		},
		Renditions: map[string]*interfaces.MediaResource{
			"prgf_banner": {URL: "https://cdn.example.com/files/styles/prgf_banner/public/pool.jpg"},
		},
		Metadata: interfaces.MediaMetadata{
			ID:        "asset-1",
			Bundle:    "image",
			Name:      "Pool",
			AltText:   "Indoor pool",
			CreatedAt: now,
		},
	}

	attachment := media.Normalize(asset)
	if attachment == nil {
		t.Fatalf("expected attachment")
	}
	if attachment.Source == nil || attachment.Source.Width != 1600 || attachment.Source.URI != "public://pool.jpg" {
		t.Fatalf("unexpected source %+v", attachment.Source)
	}
	if attachment.RenditionURL("prgf_banner") == "" {
		t.Fatalf("expected banner rendition")
	}
	if attachment.RenditionURL("prgf_gallery") != "" {
		t.Fatalf("expected empty url for missing rendition")
	}

	asset.Reference.Attributes["focal"] = "top"
	asset.Renditions["prgf_banner"].URL = "mutated"
	if attachment.Reference.Attributes["focal"] != "center" {
		t.Fatalf("expected attributes to be cloned")
	}
	if attachment.RenditionURL("prgf_banner") == "mutated" {
		t.Fatalf("expected renditions to be cloned")
	}
	if attachment.Metadata.AltText != "Indoor pool" || !attachment.Metadata.CreatedAt.Equal(now) {
		t.Fatalf("unexpected metadata %+v", attachment.Metadata)
	}
}

func TestRenditionURLOnNilAttachment(t *testing.T) {
	var attachment *media.Attachment
	if attachment.RenditionURL("prgf_banner") != "" {
		t.Fatalf("expected empty url")
	}
}
