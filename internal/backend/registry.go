package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

var (
	// ErrBackendNotRegistered is returned when resolving an unknown backend id.
	ErrBackendNotRegistered = errors.New("backend: backend not registered")
	// ErrBackendIDRequired is returned when registering without an id.
	ErrBackendIDRequired = errors.New("backend: backend id is required")
	// ErrFactoryRequired is returned when registering a nil factory.
	ErrFactoryRequired = errors.New("backend: factory is required")
)

// Factory builds a backend instance. It runs once per Resolve call.
type Factory func() (interfaces.FacetBackend, error)

// Registry maps backend service ids to factories. Resolution happens when the
// module is composed, never while rendering.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds id to factory, replacing any previous binding.
func (r *Registry) Register(id string, factory Factory) error {
	key := CanonicalID(id)
	if key == "" {
		return ErrBackendIDRequired
	}
	if factory == nil {
		return ErrFactoryRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = factory
	return nil
}

// RegisterBackend binds id to an existing instance.
func (r *Registry) RegisterBackend(id string, backend interfaces.FacetBackend) error {
	if backend == nil {
		return ErrFactoryRequired
	}
	return r.Register(id, func() (interfaces.FacetBackend, error) { return backend, nil })
}

// Resolve builds the backend registered under id.
func (r *Registry) Resolve(id string) (interfaces.FacetBackend, error) {
	key := CanonicalID(id)
	r.mu.RLock()
	factory, ok := r.factories[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotRegistered, id)
	}
	backend, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: build %q: %w", id, err)
	}
	return backend, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	key := CanonicalID(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[key]
	return ok
}

// IDs lists the canonical ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CanonicalID normalises a backend id with go-slug so "Solr Backend" and
// "solr-backend" resolve to the same entry.
func CanonicalID(id string) string {
	candidate := strings.TrimSpace(id)
	if candidate == "" {
		return ""
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return strings.ToLower(candidate)
	}
	return normalized
}
