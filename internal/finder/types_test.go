package finder

import (
	"slices"
	"testing"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

func TestReshapeSortOptionsKeepsOrder(t *testing.T) {
	got := ReshapeSortOptions([]interfaces.SortOption{
		{Key: "title__ASC", Label: "Sort by Title (A-Z)"},
		{Key: "date__ASC", Label: "Sort by Date"},
		{Key: "title__ASC", Label: "Title"},
	})
	want := []SortOptionEntry{
		{Label: "Title", Value: "title__ASC"},
		{Label: "Sort by Date", Value: "date__ASC"},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestReshapeSortOptionsEmpty(t *testing.T) {
	got := ReshapeSortOptions(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestThemeDefaults(t *testing.T) {
	var theme *Theme
	if theme.Template() != DefaultTemplate || theme.Library() != DefaultLibrary {
		t.Fatal("expected defaults from nil theme")
	}
	empty := &Theme{}
	if empty.Template() != DefaultTemplate || empty.Library() != DefaultLibrary {
		t.Fatal("expected defaults from empty theme")
	}
}
