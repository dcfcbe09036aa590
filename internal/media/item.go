package media

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReferencePrefix marks a media picker selection.
const ReferencePrefix = "media:"

var (
	// ErrInvalidReference is returned for references that do not name a media item.
	ErrInvalidReference = errors.New("media: invalid media reference")
	// ErrInvalidFileURI is returned for file URIs without a scheme.
	ErrInvalidFileURI = errors.New("media: invalid file uri")
)

// Item is a media library entity backed by a single file.
type Item struct {
	bun.BaseModel `bun:"table:activity_finder_media,alias:afm"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Bundle    string    `bun:"bundle,notnull" json:"bundle"`
	Name      string    `bun:"name,notnull" json:"name"`
	FileURI   string    `bun:"file_uri,notnull" json:"file_uri"`
	Alt       string    `bun:"alt" json:"alt,omitempty"`
	MimeType  string    `bun:"mime_type" json:"mime_type,omitempty"`
	Width     int       `bun:"width" json:"width,omitempty"`
	Height    int       `bun:"height" json:"height,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Reference returns the picker reference of the item.
func (i *Item) Reference() string {
	if i == nil {
		return ""
	}
	return FormatReference(i.ID)
}

// FormatReference renders id as a picker reference.
func FormatReference(id uuid.UUID) string {
	return ReferencePrefix + id.String()
}

// ParseReference extracts the first media id from a picker value. Multiple
// selections are space separated; only the first one is read.
func ParseReference(value string) (uuid.UUID, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return uuid.Nil, fmt.Errorf("%w: empty", ErrInvalidReference)
	}
	first := fields[0]
	raw, ok := strings.CutPrefix(first, ReferencePrefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidReference, first)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidReference, first)
	}
	return id, nil
}

// SplitFileURI separates "public://path/file.jpg" into scheme and target path.
func SplitFileURI(uri string) (scheme, target string, err error) {
	scheme, target, ok := strings.Cut(strings.TrimSpace(uri), "://")
	if !ok || scheme == "" || target == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFileURI, uri)
	}
	return scheme, strings.TrimPrefix(target, "/"), nil
}
