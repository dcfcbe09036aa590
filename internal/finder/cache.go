package finder

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/internal/cachetags"
	"github.com/goliatone/go-activity-finder/internal/settings"
)

// CacheMetadata is the cache information attached to a build.
type CacheMetadata = cachetags.Metadata

// SettingsCacheTag is invalidated whenever the settings object is saved.
const SettingsCacheTag = settings.CacheTag

// BlockCacheTag returns the tag of a single placement.
func BlockCacheTag(id uuid.UUID) string {
	return cachetags.BlockTag(id.String())
}

func (s *service) baseTags(id uuid.UUID) []string {
	return cachetags.MergeTags([]string{BlockCacheTag(id), SettingsCacheTag}, s.cacheOpts.Tags)
}

// CacheTags returns the base tags of the block merged with the facet data tag.
func (s *service) CacheTags(id uuid.UUID) []string {
	return cachetags.MergeTags(s.baseTags(id), []string{cachetags.FacetDataTag})
}

func (s *service) CacheMetadata(id uuid.UUID) CacheMetadata {
	return CacheMetadata{
		Tags:     s.CacheTags(id),
		Contexts: cachetags.MergeContexts(s.cacheOpts.Contexts),
		MaxAge:   s.cacheOpts.MaxAge,
	}
}
