package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-activity-finder/internal/logging"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

var (
	// ErrProviderUnavailable reports that no upstream media provider has been configured.
	ErrProviderUnavailable = errors.New("media: provider unavailable")
	// ErrAssetNotFound indicates that the requested media asset could not be located.
	ErrAssetNotFound = errors.New("media: asset not found")
	// ErrRenditionMissing reports that a required rendition was not supplied by the provider.
	ErrRenditionMissing = errors.New("media: required rendition missing")
)

const cacheKeyPrefix = "activity_finder:media:"

// ResolveOptions configures how media bindings should be resolved.
type ResolveOptions struct {
	CacheTTL time.Duration
}

// Service resolves media bindings into normalized attachments.
type Service interface {
	ResolveBindings(ctx context.Context, bindings BindingSet, opts ResolveOptions) (map[string][]*Attachment, error)
	Invalidate(ctx context.Context, bindings BindingSet) error
}

// ServiceOption customises the media service behaviour.
type ServiceOption func(*service)

// WithCache configures a cache provider and default TTL for resolved attachments.
func WithCache(cache interfaces.CacheProvider, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = cache
		if ttl > 0 {
			s.defaultCacheTTL = ttl
		}
	}
}

// WithLogger overrides the logger used for cache diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	provider        interfaces.MediaProvider
	cache           interfaces.CacheProvider
	defaultCacheTTL time.Duration
	logger          interfaces.Logger
}

// NewService constructs a media service that delegates to provider.
func NewService(provider interfaces.MediaProvider, opts ...ServiceOption) Service {
	s := &service{
		provider:        provider,
		defaultCacheTTL: 5 * time.Minute,
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveBindings resolves the supplied bindings into normalized attachments.
func (s *service) ResolveBindings(ctx context.Context, bindings BindingSet, opts ResolveOptions) (map[string][]*Attachment, error) {
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	if len(bindings) == 0 {
		return map[string][]*Attachment{}, nil
	}
	resolved := make(map[string][]*Attachment, len(bindings))
	for key, list := range bindings {
		if len(list) == 0 {
			resolved[key] = nil
			continue
		}
		attachments := make([]*Attachment, 0, len(list))
		for _, binding := range list {
			attachment, err := s.resolve(ctx, binding, opts)
			if err != nil {
				return nil, fmt.Errorf("media slot %s: %w", key, err)
			}
			attachments = append(attachments, attachment)
		}
		resolved[key] = attachments
	}
	return resolved, nil
}

// Invalidate evicts cached lookups and instructs the provider to refresh downstream entries.
func (s *service) Invalidate(ctx context.Context, bindings BindingSet) error {
	if s.provider == nil {
		return ErrProviderUnavailable
	}
	var refs []interfaces.MediaReference
	for _, list := range bindings {
		for _, binding := range list {
			refs = append(refs, binding.Reference)
			if s.cache != nil {
				_ = s.cache.Delete(ctx, cacheKey(binding))
			}
		}
	}
	if len(refs) == 0 {
		return nil
	}
	return s.provider.Invalidate(ctx, refs...)
}

func (s *service) resolve(ctx context.Context, binding Binding, opts ResolveOptions) (*Attachment, error) {
	var key string
	if s.cache != nil {
		key = cacheKey(binding)
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			if attachment := decodeCached(cached); attachment != nil {
				return attachment, nil
			}
			s.logger.Debug("media.cache.undecodable", "key", key)
		}
	}

	req := interfaces.MediaResolveRequest{
		Reference:     binding.Reference,
		Renditions:    unionRenditions(binding),
		IncludeSource: true,
		Purpose:       binding.Slot,
		Context: map[string]string{
			"slot": binding.Slot,
		},
	}

	asset, err := s.provider.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	attachment := Normalize(asset)
	if attachment == nil {
		return nil, ErrAssetNotFound
	}
	for _, name := range binding.Required {
		if attachment.Renditions[name] == nil {
			return nil, fmt.Errorf("%w: %s", ErrRenditionMissing, name)
		}
	}

	if s.cache != nil {
		if ttl := s.cacheTTL(opts); ttl > 0 {
			if err := s.cache.Set(ctx, key, attachment, ttl); err != nil {
				s.logger.Debug("media.cache.store_failed", "key", key, "error", err)
			}
		}
	}

	return attachment, nil
}

func (s *service) cacheTTL(opts ResolveOptions) time.Duration {
	if opts.CacheTTL > 0 {
		return opts.CacheTTL
	}
	return s.defaultCacheTTL
}

// decodeCached accepts the in-process value or the JSON form remote caches
// hand back.
func decodeCached(cached any) *Attachment {
	var raw []byte
	switch value := cached.(type) {
	case *Attachment:
		return value
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return nil
	}
	var attachment Attachment
	if err := json.Unmarshal(raw, &attachment); err != nil {
		return nil
	}
	return &attachment
}

func cacheKey(binding Binding) string {
	ref := binding.Reference
	base := strings.TrimSpace(ref.ID)
	if base == "" {
		base = strings.TrimSpace(ref.Path)
	}
	parts := []string{cacheKeyPrefix + base}
	if binding.Slot != "" {
		parts = append(parts, "slot="+binding.Slot)
	}
	if rend := unionRenditions(binding); len(rend) > 0 {
		parts = append(parts, "rend="+strings.Join(rend, ","))
	}
	if len(binding.Required) > 0 {
		req := append([]string(nil), binding.Required...)
		sort.Strings(req)
		parts = append(parts, "req="+strings.Join(req, ","))
	}
	return strings.Join(parts, "|")
}

func unionRenditions(binding Binding) []string {
	set := make(map[string]struct{})
	for _, item := range binding.Renditions {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	for _, item := range binding.Required {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	result := make([]string, 0, len(set))
	for value := range set {
		result = append(result, value)
	}
	sort.Strings(result)
	return result
}

type noopService struct{}

// NewNoOpService returns a media service that resolves nothing.
func NewNoOpService() Service { return noopService{} }

func (noopService) ResolveBindings(context.Context, BindingSet, ResolveOptions) (map[string][]*Attachment, error) {
	return map[string][]*Attachment{}, nil
}

func (noopService) Invalidate(context.Context, BindingSet) error {
	return nil
}
