// Package cachetags merges cache metadata and tracks tag invalidation.
package cachetags

import (
	"slices"
	"strings"
)

// FacetDataTag is invalidated whenever activity finder facet data changes.
const FacetDataTag = "activity_finder_data"

// BlockTagPrefix prefixes the per-placement tag.
const BlockTagPrefix = "activity_finder_block:"

// Metadata is the cache information attached to a build.
type Metadata struct {
	Tags     []string `json:"tags"`
	Contexts []string `json:"contexts"`
	MaxAge   int      `json:"max_age"`
}

// BlockTag returns the tag for a single placement.
func BlockTag(blockID string) string {
	return BlockTagPrefix + strings.TrimSpace(blockID)
}

// MergeTags returns the union of the given lists without blanks or
// duplicates, sorted.
func MergeTags(lists ...[]string) []string {
	merged := make([]string, 0)
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" || slices.Contains(merged, tag) {
				continue
			}
			merged = append(merged, tag)
		}
	}
	slices.Sort(merged)
	return merged
}

// MergeContexts follows the same rules as MergeTags.
func MergeContexts(lists ...[]string) []string {
	return MergeTags(lists...)
}

// MergeMaxAge returns the most restrictive of two max-age values. -1 is
// permanent and loses to any finite value.
func MergeMaxAge(a, b int) int {
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	default:
		return min(a, b)
	}
}
