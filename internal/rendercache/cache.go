// Package rendercache stores built view-models until one of their cache tags
// is invalidated.
package rendercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-activity-finder/internal/cachetags"
	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

const keyPrefix = "activity_finder:render:"

var (
	// ErrProviderRequired is returned when the cache has no backing provider.
	ErrProviderRequired = errors.New("rendercache: cache provider is required")
	// ErrChecksumRequired is returned when the cache has no tag checksum store.
	ErrChecksumRequired = errors.New("rendercache: tag checksum is required")
)

type entry struct {
	Tags     []string        `json:"tags"`
	Checksum int64           `json:"checksum"`
	Payload  json.RawMessage `json:"payload"`
}

// Cache reads and writes rendered payloads through a CacheProvider.
type Cache struct {
	provider interfaces.CacheProvider
	checksum interfaces.CacheTagChecksum
}

// New constructs a render cache.
func New(provider interfaces.CacheProvider, checksum interfaces.CacheTagChecksum) (*Cache, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if checksum == nil {
		return nil, ErrChecksumRequired
	}
	return &Cache{provider: provider, checksum: checksum}, nil
}

// Key derives the cache key of a block build under the given contexts.
func Key(blockID string, contexts []string) string {
	key := keyPrefix + strings.TrimSpace(blockID)
	if merged := cachetags.MergeContexts(contexts); len(merged) > 0 {
		key += ":" + strings.Join(merged, ",")
	}
	return key
}

// Get decodes the payload stored under key into dest. It reports false when
// nothing is stored or the entry was invalidated through one of its tags.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.provider.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("rendercache: get %q: %w", key, err)
	}
	stored, err := decode(raw)
	if err != nil || stored == nil {
		return false, err
	}
	current, err := c.checksum.Checksum(ctx, stored.Tags)
	if err != nil {
		return false, fmt.Errorf("rendercache: checksum %q: %w", key, err)
	}
	if current != stored.Checksum {
		_ = c.provider.Delete(ctx, key)
		return false, nil
	}
	if err := json.Unmarshal(stored.Payload, dest); err != nil {
		return false, fmt.Errorf("rendercache: decode payload %q: %w", key, err)
	}
	return true, nil
}

// Checksum returns the current checksum of tags. Builders read it before
// gathering their inputs and hand it to SetWithChecksum, so an invalidation
// that lands mid-build leaves the stored entry already outdated.
func (c *Cache) Checksum(ctx context.Context, tags []string) (int64, error) {
	checksum, err := c.checksum.Checksum(ctx, cachetags.MergeTags(tags))
	if err != nil {
		return 0, fmt.Errorf("rendercache: checksum: %w", err)
	}
	return checksum, nil
}

// Set stores value under key, tied to tags at their current checksum. maxAge
// follows cache metadata semantics: 0 skips caching, -1 keeps the entry until
// a tag is invalidated, any other value is a lifetime in seconds.
func (c *Cache) Set(ctx context.Context, key string, tags []string, maxAge int, value any) error {
	if maxAge == 0 {
		return nil
	}
	checksum, err := c.Checksum(ctx, tags)
	if err != nil {
		return err
	}
	return c.SetWithChecksum(ctx, key, tags, checksum, maxAge, value)
}

// SetWithChecksum stores value under key, tied to tags as they were at
// checksum.
func (c *Cache) SetWithChecksum(ctx context.Context, key string, tags []string, checksum int64, maxAge int, value any) error {
	if maxAge == 0 {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("rendercache: encode payload %q: %w", key, err)
	}
	var ttl time.Duration
	if maxAge > 0 {
		ttl = time.Duration(maxAge) * time.Second
	}
	stored := &entry{Tags: cachetags.MergeTags(tags), Checksum: checksum, Payload: payload}
	return c.provider.Set(ctx, key, stored, ttl)
}

// Delete drops the entry stored under key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.provider.Delete(ctx, key)
}

func decode(raw any) (*entry, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case *entry:
		return typed, nil
	case []byte:
		return unmarshalEntry(typed)
	case string:
		return unmarshalEntry([]byte(typed))
	default:
		return nil, fmt.Errorf("rendercache: unexpected cached type %T", raw)
	}
}

func unmarshalEntry(data []byte) (*entry, error) {
	var stored entry
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("rendercache: decode entry: %w", err)
	}
	return &stored, nil
}
