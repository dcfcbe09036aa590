package media_test

import (
	"context"
	"errors"
	"testing"
	"time"

	cacheadapter "github.com/goliatone/go-activity-finder/internal/adapters/cache"
	"github.com/goliatone/go-activity-finder/internal/media"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

func TestServiceResolveBindings(t *testing.T) {
	provider := &stubProvider{
		assets: map[string]*interfaces.MediaAsset{
			"asset-1": {
				Reference: interfaces.MediaReference{ID: "asset-1"},
				Metadata:  interfaces.MediaMetadata{ID: "asset-1", Bundle: "image"},
				Source:    &interfaces.MediaResource{URL: "https://cdn.local/full.png"},
				Renditions: map[string]*interfaces.MediaResource{
					"thumb": {URL: "https://cdn.local/thumb.png"},
				},
			},
		},
	}

	svc := media.NewService(provider)
	bindings := media.BindingSet{
		"hero": {
			{Slot: "hero", Reference: interfaces.MediaReference{ID: "asset-1"}, Required: []string{"thumb"}},
		},
	}

	resolved, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{})
	if err != nil {
		t.Fatalf("resolve bindings: %v", err)
	}
	attachments := resolved["hero"]
	if len(attachments) != 1 {
		t.Fatalf("expected one attachment got %d", len(attachments))
	}
	if attachments[0].Metadata.ID != "asset-1" {
		t.Fatalf("unexpected asset id %s", attachments[0].Metadata.ID)
	}
	if attachments[0].Renditions["thumb"].URL != "https://cdn.local/thumb.png" {
		t.Fatalf("expected thumb rendition to be populated")
	}
}

func TestServiceResolveBindingsCachesResults(t *testing.T) {
	provider := &stubProvider{
		assets: map[string]*interfaces.MediaAsset{
			"asset-1": {
				Reference: interfaces.MediaReference{ID: "asset-1"},
				Metadata:  interfaces.MediaMetadata{ID: "asset-1"},
			},
		},
	}
	cache := newMemoryCache()
	svc := media.NewService(provider, media.WithCache(cache, time.Minute))
	bindings := media.BindingSet{
		"hero": {{Slot: "hero", Reference: interfaces.MediaReference{ID: "asset-1"}}},
	}

	if _, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{}); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{}); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if provider.resolveCount("asset-1") != 1 {
		t.Fatalf("expected provider resolve once, got %d", provider.resolveCount("asset-1"))
	}
}

func TestServiceResolveBindingsMissingRendition(t *testing.T) {
	provider := &stubProvider{
		assets: map[string]*interfaces.MediaAsset{
			"asset-1": {
				Reference: interfaces.MediaReference{ID: "asset-1"},
				Metadata:  interfaces.MediaMetadata{ID: "asset-1"},
			},
		},
	}
	svc := media.NewService(provider)
	bindings := media.BindingSet{
		"hero": {{Slot: "hero", Reference: interfaces.MediaReference{ID: "asset-1"}, Required: []string{"thumb"}}},
	}

	_, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{})
	if !errors.Is(err, media.ErrRenditionMissing) {
		t.Fatalf("expected ErrRenditionMissing got %v", err)
	}
}

func TestServiceResolveBindingsDecodesSerializedCache(t *testing.T) {
	provider := &stubProvider{}
	cache := newMemoryCache()
	cache.raw = []byte(`{"reference":{"id":"asset-1"},"metadata":{"id":"asset-1"},"renditions":{"prgf_banner":{"url":"https://cdn.local/banner.jpg"}}}`)
	svc := media.NewService(provider, media.WithCache(cache, time.Minute))
	bindings := media.BindingSet{
		"background_image": {{Slot: "background_image", Reference: interfaces.MediaReference{ID: "asset-1"}, Required: []string{"prgf_banner"}}},
	}

	resolved, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{})
	if err != nil {
		t.Fatalf("resolve from serialized cache: %v", err)
	}
	if got := resolved["background_image"][0].RenditionURL("prgf_banner"); got != "https://cdn.local/banner.jpg" {
		t.Fatalf("expected decoded rendition url, got %q", got)
	}
	if provider.resolveCount("miss") != 0 || provider.resolveCount("asset-1") != 0 {
		t.Fatal("expected provider not to be called on a cache hit")
	}
}

type debugRecorder struct {
	messages []string
}

func (r *debugRecorder) Trace(string, ...any)                          {}
func (r *debugRecorder) Debug(msg string, _ ...any)                    { r.messages = append(r.messages, msg) }
func (r *debugRecorder) Info(string, ...any)                           {}
func (r *debugRecorder) Warn(string, ...any)                           {}
func (r *debugRecorder) Error(string, ...any)                          {}
func (r *debugRecorder) Fatal(string, ...any)                          {}
func (r *debugRecorder) WithContext(context.Context) interfaces.Logger { return r }

func TestServiceResolveBindingsTreatsEmptyCacheAsMiss(t *testing.T) {
	provider := &stubProvider{
		assets: map[string]*interfaces.MediaAsset{
			"asset-1": {
				Reference: interfaces.MediaReference{ID: "asset-1"},
				Metadata:  interfaces.MediaMetadata{ID: "asset-1"},
			},
		},
	}
	logger := &debugRecorder{}
	svc := media.NewService(provider, media.WithCache(cacheadapter.NewMemory(), time.Minute), media.WithLogger(logger))
	bindings := media.BindingSet{
		"hero": {{Slot: "hero", Reference: interfaces.MediaReference{ID: "asset-1"}}},
	}

	if _, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if provider.resolveCount("asset-1") != 1 {
		t.Fatalf("expected provider to resolve the miss, got %d calls", provider.resolveCount("asset-1"))
	}
	for _, msg := range logger.messages {
		if msg == "media.cache.undecodable" {
			t.Fatalf("expected an empty cache slot to be a plain miss, got %v", logger.messages)
		}
	}
}

func TestServiceResolveBindingsMissingAsset(t *testing.T) {
	svc := media.NewService(&stubProvider{})
	bindings := media.BindingSet{
		"background_image": {{Slot: "background_image", Reference: interfaces.MediaReference{ID: "missing"}}},
	}

	_, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{})
	if !errors.Is(err, media.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound got %v", err)
	}
}

func TestServiceWithoutProvider(t *testing.T) {
	svc := media.NewService(nil)
	if _, err := svc.ResolveBindings(context.Background(), media.BindingSet{}, media.ResolveOptions{}); !errors.Is(err, media.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable got %v", err)
	}
}

func TestServiceInvalidateClearsCache(t *testing.T) {
	provider := &stubProvider{
		assets: map[string]*interfaces.MediaAsset{
			"asset-1": {Reference: interfaces.MediaReference{ID: "asset-1"}},
		},
	}
	cache := newMemoryCache()
	svc := media.NewService(provider, media.WithCache(cache, time.Minute))
	bindings := media.BindingSet{
		"hero": {{Slot: "hero", Reference: interfaces.MediaReference{ID: "asset-1"}}},
	}

	if _, err := svc.ResolveBindings(context.Background(), bindings, media.ResolveOptions{}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := svc.Invalidate(context.Background(), bindings); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if cache.len() != 0 {
		t.Fatalf("expected cache to be cleared, items=%d", cache.len())
	}
	if len(provider.invalidated) != 1 {
		t.Fatalf("expected provider invalidate to run")
	}
}

type stubProvider struct {
	assets      map[string]*interfaces.MediaAsset
	resolves    map[string]int
	invalidated []interfaces.MediaReference
}

func (s *stubProvider) Resolve(_ context.Context, req interfaces.MediaResolveRequest) (*interfaces.MediaAsset, error) {
	if s.resolves == nil {
		s.resolves = make(map[string]int)
	}
	key := req.Reference.ID
	asset, ok := s.assets[key]
	if ok {
		s.resolves[key]++
		return asset, nil
	}
	s.resolves["miss"]++
	return nil, nil
}

func (s *stubProvider) ResolveBatch(ctx context.Context, reqs []interfaces.MediaResolveRequest) (map[string]*interfaces.MediaAsset, error) {
	result := make(map[string]*interfaces.MediaAsset, len(reqs))
	for _, req := range reqs {
		asset, _ := s.Resolve(ctx, req)
		result[req.Reference.ID] = asset
	}
	return result, nil
}

func (s *stubProvider) Invalidate(_ context.Context, refs ...interfaces.MediaReference) error {
	s.invalidated = append(s.invalidated, refs...)
	return nil
}

func (s *stubProvider) resolveCount(key string) int {
	if s.resolves == nil {
		return 0
	}
	return s.resolves[key]
}

type memoryCache struct {
	store map[string]any
	raw   []byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string]any)}
}

func (m *memoryCache) Get(_ context.Context, key string) (any, error) {
	value, ok := m.store[key]
	if !ok {
		if m.raw != nil {
			return m.raw, nil
		}
		return nil, errors.New("miss")
	}
	return value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.store[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.store, key)
	return nil
}

func (m *memoryCache) Clear(_ context.Context) error {
	m.store = make(map[string]any)
	return nil
}

func (m *memoryCache) len() int {
	return len(m.store)
}
