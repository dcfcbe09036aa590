package backend

import (
	"context"
	"maps"

	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// FacetData is the full set of values a static backend serves.
type FacetData struct {
	SortOptions    []interfaces.SortOption `json:"sort_options"`
	Ages           []interfaces.Facet      `json:"ages"`
	DaysOfWeek     []interfaces.Facet      `json:"days_of_week"`
	PartsOfDay     []interfaces.Facet      `json:"parts_of_day"`
	DaysTimes      []interfaces.Facet      `json:"days_times"`
	Categories     []interfaces.Facet      `json:"categories"`
	CategoriesType string                  `json:"categories_type"`
	Locations      []interfaces.Facet      `json:"locations"`
}

// FacetDataFromConfig copies the static backend section of the runtime config.
func FacetDataFromConfig(cfg runtimeconfig.StaticBackendConfig) FacetData {
	return FacetData{
		SortOptions:    cfg.SortOptions,
		Ages:           cfg.Ages,
		DaysOfWeek:     cfg.DaysOfWeek,
		PartsOfDay:     cfg.PartsOfDay,
		DaysTimes:      cfg.DaysTimes,
		Categories:     cfg.Categories,
		CategoriesType: cfg.CategoriesType,
		Locations:      cfg.Locations,
	}
}

// Static serves a fixed FacetData document. Every call returns a copy.
type Static struct {
	data FacetData
}

var _ interfaces.FacetBackend = (*Static)(nil)

// NewStatic constructs a static backend.
func NewStatic(data FacetData) *Static {
	return &Static{data: data}
}

func (s *Static) SortOptions(context.Context) ([]interfaces.SortOption, error) {
	return append([]interfaces.SortOption(nil), s.data.SortOptions...), nil
}

func (s *Static) Ages(context.Context) ([]interfaces.Facet, error) {
	return cloneFacets(s.data.Ages), nil
}

func (s *Static) DaysOfWeek(context.Context) ([]interfaces.Facet, error) {
	return cloneFacets(s.data.DaysOfWeek), nil
}

func (s *Static) PartsOfDay(context.Context) ([]interfaces.Facet, error) {
	return cloneFacets(s.data.PartsOfDay), nil
}

func (s *Static) DaysTimes(context.Context) ([]interfaces.Facet, error) {
	return cloneFacets(s.data.DaysTimes), nil
}

func (s *Static) Categories(context.Context) ([]interfaces.Facet, error) {
	return cloneFacets(s.data.Categories), nil
}

func (s *Static) CategoriesType(context.Context) (string, error) {
	return s.data.CategoriesType, nil
}

func (s *Static) Locations(context.Context) ([]interfaces.Facet, error) {
	return cloneFacets(s.data.Locations), nil
}

func cloneFacets(in []interfaces.Facet) []interfaces.Facet {
	if in == nil {
		return nil
	}
	out := make([]interfaces.Facet, len(in))
	for i, facet := range in {
		facet.Children = cloneFacets(facet.Children)
		facet.Extra = maps.Clone(facet.Extra)
		out[i] = facet
	}
	return out
}
