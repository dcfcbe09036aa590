package finder

import (
	"github.com/goliatone/go-activity-finder/internal/cachetags"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const (
	// DefaultTemplate is the template rendering the block.
	DefaultTemplate = "activity_finder_4_block"
	// DefaultLibrary is the client library attached to the block.
	DefaultLibrary = "activity_finder/activity_finder_4"

	FieldLegacyMode      = "legacy_mode"
	FieldBackgroundImage = "background_image"

	DefaultBrowser      = "images_library"
	DefaultMobileStyle  = "prgf_banner"
	DefaultDesktopStyle = "prgf_gallery"
)

// RenderArray is the view-model handed to the presentation layer.
type RenderArray struct {
	Theme                    string             `json:"theme"`
	Ages                     []interfaces.Facet `json:"ages"`
	Days                     []interfaces.Facet `json:"days"`
	Times                    []interfaces.Facet `json:"times"`
	DaysTimes                []interfaces.Facet `json:"days_times"`
	Categories               []interfaces.Facet `json:"categories"`
	CategoriesType           string             `json:"categories_type"`
	Activities               []interfaces.Facet `json:"activities"`
	Locations                []interfaces.Facet `json:"locations"`
	IsSearchBoxDisabled      bool               `json:"is_search_box_disabled"`
	IsSpotsAvailableDisabled bool               `json:"is_spots_available_disabled"`
	ExpanderSectionsConfig   map[string]any     `json:"expander_sections_config"`
	SortOptions              []SortOptionEntry  `json:"sort_options"`
	LegacyMode               bool               `json:"legacy_mode"`
	BackgroundImage          BackgroundImage    `json:"background_image"`
	Attached                 Attached           `json:"attached"`
	Cache                    cachetags.Metadata `json:"cache"`
}

// SortOptionEntry is a backend sort option reshaped for the client.
type SortOptionEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BackgroundImage holds the resolved image URLs per breakpoint. Both are
// empty when no image is configured or it could not be resolved.
type BackgroundImage struct {
	Mobile  string `json:"mobile"`
	Desktop string `json:"desktop"`
}

// Attached lists client assets required by the block.
type Attached struct {
	Library []string `json:"library"`
}

// ReshapeSortOptions converts backend sort options into label/value entries.
// Order follows the backend; a repeated key keeps its first position and
// takes the later label.
func ReshapeSortOptions(options []interfaces.SortOption) []SortOptionEntry {
	entries := make([]SortOptionEntry, 0, len(options))
	positions := make(map[string]int, len(options))
	for _, option := range options {
		if idx, ok := positions[option.Key]; ok {
			entries[idx].Label = option.Label
			continue
		}
		positions[option.Key] = len(entries)
		entries = append(entries, SortOptionEntry{Label: option.Label, Value: option.Key})
	}
	return entries
}
