package cachetags

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// ErrRedisClientRequired is returned when the Redis checksum has no client.
var ErrRedisClientRequired = errors.New("cachetags: redis client is required")

// DefaultRedisPrefix namespaces invalidation counters.
const DefaultRedisPrefix = "activity_finder:cachetags:"

// MemoryChecksum keeps invalidation counters in process.
type MemoryChecksum struct {
	mu       sync.RWMutex
	counters map[string]int64
}

var _ interfaces.CacheTagChecksum = (*MemoryChecksum)(nil)

// NewMemoryChecksum constructs an empty checksum store.
func NewMemoryChecksum() *MemoryChecksum {
	return &MemoryChecksum{counters: make(map[string]int64)}
}

// InvalidateTags bumps the counter of every tag.
func (m *MemoryChecksum) InvalidateTags(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tag := range MergeTags(tags) {
		m.counters[tag]++
	}
	return nil
}

// Checksum sums the counters of tags. Unknown tags count as zero.
func (m *MemoryChecksum) Checksum(_ context.Context, tags []string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, tag := range MergeTags(tags) {
		sum += m.counters[tag]
	}
	return sum, nil
}

// RedisChecksum keeps invalidation counters in Redis so every process sees
// the same invalidations.
type RedisChecksum struct {
	client *redis.Client
	prefix string
}

var _ interfaces.CacheTagChecksum = (*RedisChecksum)(nil)

// NewRedisChecksum wraps client. An empty prefix falls back to DefaultRedisPrefix.
func NewRedisChecksum(client *redis.Client, prefix string) (*RedisChecksum, error) {
	if client == nil {
		return nil, ErrRedisClientRequired
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisChecksum{client: client, prefix: prefix}, nil
}

func (r *RedisChecksum) InvalidateTags(ctx context.Context, tags ...string) error {
	merged := MergeTags(tags)
	if len(merged) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	for _, tag := range merged {
		pipe.Incr(ctx, r.prefix+tag)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cachetags: invalidate %v: %w", merged, err)
	}
	return nil
}

func (r *RedisChecksum) Checksum(ctx context.Context, tags []string) (int64, error) {
	merged := MergeTags(tags)
	if len(merged) == 0 {
		return 0, nil
	}
	keys := make([]string, len(merged))
	for i, tag := range merged {
		keys[i] = r.prefix + tag
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cachetags: checksum %v: %w", merged, err)
	}
	var sum int64
	for i, value := range values {
		if value == nil {
			continue
		}
		raw, ok := value.(string)
		if !ok {
			continue
		}
		counter, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cachetags: counter %q: %w", keys[i], err)
		}
		sum += counter
	}
	return sum, nil
}
