package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

// Cache returns an interfaces.CacheProvider that does nothing.
func Cache() interfaces.CacheProvider {
	return cacheAdapter{}
}

type cacheAdapter struct{}

func (cacheAdapter) Get(context.Context, string) (any, error) {
	return nil, nil
}

func (cacheAdapter) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (cacheAdapter) Delete(context.Context, string) error {
	return nil
}

func (cacheAdapter) Clear(context.Context) error {
	return nil
}

// Checksum returns a tag checksum that never moves.
func Checksum() interfaces.CacheTagChecksum {
	return checksumAdapter{}
}

type checksumAdapter struct{}

func (checksumAdapter) InvalidateTags(context.Context, ...string) error {
	return nil
}

func (checksumAdapter) Checksum(context.Context, []string) (int64, error) {
	return 0, nil
}

// Media returns a media provider that resolves references without resources.
// Builds using it fall back to empty background image URLs.
func Media() interfaces.MediaProvider {
	return mediaAdapter{}
}

type mediaAdapter struct{}

func (mediaAdapter) Resolve(_ context.Context, req interfaces.MediaResolveRequest) (*interfaces.MediaAsset, error) {
	return &interfaces.MediaAsset{
		Reference:  req.Reference,
		Renditions: map[string]*interfaces.MediaResource{},
		Metadata: interfaces.MediaMetadata{
			ID: req.Reference.ID,
		},
	}, nil
}

func (mediaAdapter) ResolveBatch(ctx context.Context, reqs []interfaces.MediaResolveRequest) (map[string]*interfaces.MediaAsset, error) {
	result := make(map[string]*interfaces.MediaAsset, len(reqs))
	for _, req := range reqs {
		ref := req.Reference
		asset, _ := (mediaAdapter{}).Resolve(ctx, req)
		key := ref.ID
		if key == "" {
			key = ref.Path
		}
		result[key] = asset
	}
	return result, nil
}

func (mediaAdapter) Invalidate(context.Context, ...interfaces.MediaReference) error {
	return nil
}
