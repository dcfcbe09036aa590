// Package mediapicker provides the media selection widget used by block
// settings forms.
package mediapicker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-activity-finder/internal/form"
	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const (
	// TargetField carries the selected references inside the picker element.
	TargetField  = "target_id"
	currentField = "current"

	DefaultViewMode = "preview"
)

// ErrRepositoryRequired is returned by Load when the picker has no media repository.
var ErrRepositoryRequired = errors.New("mediapicker: media repository is required")

// Preview describes a selected item shown next to the picker.
type Preview struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Bundle    string `json:"bundle,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Option customises the picker.
type Option func(*Picker)

// WithStyles enables preview URLs built from the original file.
func WithStyles(styles *media.ImageStyles) Option {
	return func(p *Picker) {
		p.styles = styles
	}
}

// WithLogger overrides the picker logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Picker) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Picker builds media selection elements and reads their submitted values.
type Picker struct {
	items  media.ItemRepository
	styles *media.ImageStyles
	logger interfaces.Logger
}

// New constructs a picker over items.
func New(items media.ItemRepository, opts ...Option) *Picker {
	p := &Picker{
		items:  items,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Element builds the picker element named name. defaultValue holds the current
// selection as space separated references; at most cardinality of them are
// kept (cardinality < 1 means unlimited).
func (p *Picker) Element(ctx context.Context, name, browserID, defaultValue string, cardinality int, viewMode string) form.Element {
	if strings.TrimSpace(viewMode) == "" {
		viewMode = DefaultViewMode
	}
	references := strings.Fields(defaultValue)
	if cardinality > 0 && len(references) > cardinality {
		references = references[:cardinality]
	}

	return form.Element{
		Name: name,
		Type: form.TypeContainer,
		Attributes: map[string]any{
			"entity_browser": browserID,
			"cardinality":    cardinality,
			"view_mode":      viewMode,
		},
		Children: []form.Element{
			{
				Name:    TargetField,
				Type:    form.TypeHidden,
				Default: strings.Join(references, " "),
			},
			{
				Name:    currentField,
				Type:    form.TypeMarkup,
				Default: p.previews(ctx, references),
			},
		},
	}
}

func (p *Picker) previews(ctx context.Context, references []string) []Preview {
	previews := make([]Preview, 0, len(references))
	for _, reference := range references {
		item, err := p.Load(ctx, reference)
		if err != nil {
			logging.WithMediaReference(p.logger, reference).Debug("mediapicker.preview.skipped", "error", err)
			continue
		}
		preview := Preview{
			Reference: item.Reference(),
			Name:      item.Name,
			Bundle:    item.Bundle,
		}
		if p.styles != nil {
			if url, err := p.styles.SourceURL(item.FileURI); err == nil {
				preview.URL = url
			}
		}
		previews = append(previews, preview)
	}
	return previews
}

// Value extracts the submitted selection for name. Both the nested
// {"target_id": "..."} shape and a plain string are accepted. The result is
// trimmed and otherwise returned verbatim.
func Value(values map[string]any, name string) string {
	raw, ok := values[name]
	if !ok || raw == nil {
		return ""
	}
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		target, _ := typed[TargetField].(string)
		return strings.TrimSpace(target)
	case map[string]string:
		return strings.TrimSpace(typed[TargetField])
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

// Load returns the first item referenced by reference.
func (p *Picker) Load(ctx context.Context, reference string) (*media.Item, error) {
	if p == nil || p.items == nil {
		return nil, ErrRepositoryRequired
	}
	id, err := media.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	return p.items.GetByID(ctx, id)
}
