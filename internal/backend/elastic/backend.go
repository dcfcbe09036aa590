// Package elastic reads activity finder facets from an Elasticsearch index of
// sessions using terms aggregations.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

var (
	ErrIndexRequired  = errors.New("elastic: index is required")
	ErrSearchFailed   = errors.New("elastic: search request failed")
	ErrClientRequired = errors.New("elastic: client is required")
)

// Aggregated fields of the sessions index.
const (
	FieldAgeGroup   = "age_group"
	FieldDays       = "days"
	FieldPartOfDay  = "part_of_day"
	FieldDaysTimes  = "days_times"
	FieldCategory   = "category"
	FieldCategoryOf = "category_type"
	FieldLocation   = "location"
	FieldLocationOf = "location_group"
)

var defaultSortOptions = []interfaces.SortOption{
	{Key: "title__ASC", Label: "Sort by Title (A-Z)"},
	{Key: "title__DESC", Label: "Sort by Title (Z-A)"},
	{Key: "nid__ASC", Label: "Sort by Oldest"},
	{Key: "nid__DESC", Label: "Sort by Newest"},
}

// Backend implements interfaces.FacetBackend on top of an Elasticsearch index.
type Backend struct {
	client         *elasticsearch.Client
	index          string
	categoriesType string
	bucketSize     int
	timeout        time.Duration
	sortOptions    []interfaces.SortOption
	logger         interfaces.Logger
}

var _ interfaces.FacetBackend = (*Backend)(nil)

// Option mutates the backend configuration.
type Option func(*Backend)

// WithLogger overrides the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewClient builds a go-elasticsearch client from the runtime config.
func NewClient(cfg runtimeconfig.ElasticBackendConfig) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elastic: create client: %w", err)
	}
	return client, nil
}

// New constructs a backend reading from cfg.Index.
func New(client *elasticsearch.Client, cfg runtimeconfig.ElasticBackendConfig, opts ...Option) (*Backend, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	index := strings.TrimSpace(cfg.Index)
	if index == "" {
		return nil, ErrIndexRequired
	}
	b := &Backend{
		client:         client,
		index:          index,
		categoriesType: cfg.CategoriesType,
		bucketSize:     cfg.BucketSize,
		timeout:        cfg.Timeout,
		sortOptions:    cfg.SortOptions,
		logger:         logging.NoOp(),
	}
	if b.bucketSize <= 0 {
		b.bucketSize = 100
	}
	if len(b.sortOptions) == 0 {
		b.sortOptions = defaultSortOptions
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Backend) SortOptions(context.Context) ([]interfaces.SortOption, error) {
	return append([]interfaces.SortOption(nil), b.sortOptions...), nil
}

func (b *Backend) Ages(ctx context.Context) ([]interfaces.Facet, error) {
	return b.terms(ctx, FieldAgeGroup)
}

func (b *Backend) DaysOfWeek(ctx context.Context) ([]interfaces.Facet, error) {
	return b.terms(ctx, FieldDays)
}

func (b *Backend) PartsOfDay(ctx context.Context) ([]interfaces.Facet, error) {
	return b.terms(ctx, FieldPartOfDay)
}

func (b *Backend) DaysTimes(ctx context.Context) ([]interfaces.Facet, error) {
	return b.terms(ctx, FieldDaysTimes)
}

// Categories groups categories under their category type.
func (b *Backend) Categories(ctx context.Context) ([]interfaces.Facet, error) {
	return b.nestedTerms(ctx, FieldCategoryOf, FieldCategory)
}

// CategoriesType is a configured label for the category grouping.
func (b *Backend) CategoriesType(context.Context) (string, error) {
	return b.categoriesType, nil
}

// Locations groups locations under their location group.
func (b *Backend) Locations(ctx context.Context) ([]interfaces.Facet, error) {
	return b.nestedTerms(ctx, FieldLocationOf, FieldLocation)
}

func (b *Backend) terms(ctx context.Context, field string) ([]interfaces.Facet, error) {
	aggs := map[string]any{
		field: map[string]any{
			"terms": map[string]any{
				"field": field,
				"size":  b.bucketSize,
				"order": map[string]any{"_key": "asc"},
			},
		},
	}
	result, err := b.search(ctx, aggs)
	if err != nil {
		return nil, err
	}
	return toFacets(result.Aggregations[field].Buckets, ""), nil
}

func (b *Backend) nestedTerms(ctx context.Context, parent, child string) ([]interfaces.Facet, error) {
	aggs := map[string]any{
		parent: map[string]any{
			"terms": map[string]any{
				"field": parent,
				"size":  b.bucketSize,
				"order": map[string]any{"_key": "asc"},
			},
			"aggs": map[string]any{
				child: map[string]any{
					"terms": map[string]any{
						"field": child,
						"size":  b.bucketSize,
						"order": map[string]any{"_key": "asc"},
					},
				},
			},
		},
	}
	result, err := b.search(ctx, aggs)
	if err != nil {
		return nil, err
	}
	return toFacets(result.Aggregations[parent].Buckets, child), nil
}

func (b *Backend) search(ctx context.Context, aggs map[string]any) (*searchResponse, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]any{
		"size": 0,
		"aggs": aggs,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: encode query: %w", err)
	}

	size := 0
	req := esapi.SearchRequest{
		Index: []string{b.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	start := time.Now()
	res, err := req.Do(ctx, b.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.Status())
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("elastic: decode response: %w", err)
	}
	b.logger.Debug("elastic.search.completed", "index", b.index, "took_ms", time.Since(start).Milliseconds())
	return &decoded, nil
}

type searchResponse struct {
	Aggregations map[string]aggregation `json:"aggregations"`
}

type aggregation struct {
	Buckets []bucket `json:"buckets"`
}

// bucket keeps sub-aggregations as raw JSON because their names vary.
type bucket struct {
	Key      any
	KeyAsStr string
	DocCount int
	Sub      map[string]json.RawMessage
}

func (b *bucket) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Sub = make(map[string]json.RawMessage)
	for name, value := range raw {
		switch name {
		case "key":
			if err := json.Unmarshal(value, &b.Key); err != nil {
				return err
			}
		case "key_as_string":
			if err := json.Unmarshal(value, &b.KeyAsStr); err != nil {
				return err
			}
		case "doc_count":
			if err := json.Unmarshal(value, &b.DocCount); err != nil {
				return err
			}
		default:
			b.Sub[name] = value
		}
	}
	return nil
}

func (b bucket) label() string {
	if b.KeyAsStr != "" {
		return b.KeyAsStr
	}
	switch key := b.Key.(type) {
	case string:
		return key
	case nil:
		return ""
	default:
		return fmt.Sprint(key)
	}
}

func toFacets(buckets []bucket, child string) []interfaces.Facet {
	out := make([]interfaces.Facet, 0, len(buckets))
	for _, bkt := range buckets {
		label := bkt.label()
		facet := interfaces.Facet{
			Label: label,
			Value: label,
			Count: bkt.DocCount,
		}
		if child != "" {
			if raw, ok := bkt.Sub[child]; ok {
				var sub aggregation
				if err := json.Unmarshal(raw, &sub); err == nil {
					facet.Children = toFacets(sub.Buckets, "")
				}
			}
		}
		out = append(out, facet)
	}
	return out
}
