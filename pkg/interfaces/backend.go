package interfaces

import "context"

// FacetBackend supplies the filter data rendered by the activity finder.
// Values other than sort options are passed through to the presentation layer
// unchanged.
type FacetBackend interface {
	SortOptions(ctx context.Context) ([]SortOption, error)
	Ages(ctx context.Context) ([]Facet, error)
	DaysOfWeek(ctx context.Context) ([]Facet, error)
	PartsOfDay(ctx context.Context) ([]Facet, error)
	DaysTimes(ctx context.Context) ([]Facet, error)
	Categories(ctx context.Context) ([]Facet, error)
	CategoriesType(ctx context.Context) (string, error)
	Locations(ctx context.Context) ([]Facet, error)
}

// SortOption is a single key/label pair of the backend sort mapping. Backends
// return them in the mapping's iteration order.
type SortOption struct {
	Key   string `json:"key" mapstructure:"key"`
	Label string `json:"label" mapstructure:"label"`
}

// Facet is a filterable value, optionally grouping child values (for example
// categories under a program type or locations under a branch group).
type Facet struct {
	Label    string         `json:"label" mapstructure:"label"`
	Value    string         `json:"value" mapstructure:"value"`
	Count    int            `json:"count,omitempty" mapstructure:"count"`
	Children []Facet        `json:"children,omitempty" mapstructure:"children"`
	Extra    map[string]any `json:"extra,omitempty" mapstructure:"extra"`
}
