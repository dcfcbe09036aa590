package cachetags

import (
	"slices"
	"testing"
)

func TestMergeTagsAddsFixedTagOnce(t *testing.T) {
	base := []string{BlockTag("abc"), "config:system.site"}

	first := MergeTags(base, []string{FacetDataTag})
	second := MergeTags(first, []string{FacetDataTag})

	for _, tags := range [][]string{first, second} {
		count := 0
		for _, tag := range tags {
			if tag == FacetDataTag {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("expected fixed tag exactly once, got %v", tags)
		}
		for _, tag := range base {
			if !slices.Contains(tags, tag) {
				t.Fatalf("expected base tag %q in %v", tag, tags)
			}
		}
	}
	if !slices.IsSorted(first) {
		t.Fatalf("expected sorted tags, got %v", first)
	}
}

func TestMergeTagsDropsBlanks(t *testing.T) {
	tags := MergeTags([]string{" ", "b", " a "}, nil, []string{"b"})
	if !slices.Equal(tags, []string{"a", "b"}) {
		t.Fatalf("unexpected tags %v", tags)
	}
	if empty := MergeTags(); len(empty) != 0 || empty == nil {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestMergeMaxAge(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{-1, -1, -1},
		{-1, 60, 60},
		{300, -1, 300},
		{0, 60, 0},
		{120, 60, 60},
	}
	for _, tc := range cases {
		if got := MergeMaxAge(tc.a, tc.b); got != tc.want {
			t.Fatalf("MergeMaxAge(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
