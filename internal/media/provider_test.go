package media

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/pkg/interfaces"
)

func seedItem(t *testing.T, repo ItemRepository, uri string) *Item {
	t.Helper()
	item, err := repo.Create(context.Background(), &Item{
		ID:       uuid.New(),
		Bundle:   "image",
		Name:     "Pool",
		FileURI:  uri,
		Alt:      "Indoor pool",
		MimeType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestLibraryProviderResolvesRenditions(t *testing.T) {
	repo := NewMemoryItemRepository()
	item := seedItem(t, repo, "public://pool.jpg")
	provider := NewLibraryProvider(repo, newTestStyles(t))

	asset, err := provider.Resolve(context.Background(), interfaces.MediaResolveRequest{
		Reference:     interfaces.MediaReference{ID: item.Reference()},
		Renditions:    []string{"prgf_banner", "prgf_gallery", "unknown"},
		IncludeSource: true,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if asset.Source == nil || asset.Source.URL == "" {
		t.Fatalf("expected source resource, got %+v", asset.Source)
	}
	if len(asset.Renditions) != 2 {
		t.Fatalf("expected unknown style to be skipped, got %v", asset.Renditions)
	}
	if asset.Renditions["prgf_banner"].URL == asset.Renditions["prgf_gallery"].URL {
		t.Fatal("expected distinct rendition urls")
	}
	if asset.Metadata.AltText != "Indoor pool" || asset.Reference.ID != item.ID.String() {
		t.Fatalf("unexpected asset metadata %+v", asset.Metadata)
	}
}

func TestLibraryProviderAcceptsBareIDs(t *testing.T) {
	repo := NewMemoryItemRepository()
	item := seedItem(t, repo, "public://pool.jpg")
	provider := NewLibraryProvider(repo, newTestStyles(t))

	if _, err := provider.Resolve(context.Background(), interfaces.MediaResolveRequest{
		Reference: interfaces.MediaReference{ID: item.ID.String()},
	}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestLibraryProviderMissingItem(t *testing.T) {
	provider := NewLibraryProvider(NewMemoryItemRepository(), newTestStyles(t))

	_, err := provider.Resolve(context.Background(), interfaces.MediaResolveRequest{
		Reference: interfaces.MediaReference{ID: FormatReference(uuid.New())},
	})
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}

	_, err = provider.Resolve(context.Background(), interfaces.MediaResolveRequest{
		Reference: interfaces.MediaReference{ID: "garbage"},
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestLibraryProviderResolveBatchSkipsMissing(t *testing.T) {
	repo := NewMemoryItemRepository()
	item := seedItem(t, repo, "public://pool.jpg")
	provider := NewLibraryProvider(repo, newTestStyles(t))

	assets, err := provider.ResolveBatch(context.Background(), []interfaces.MediaResolveRequest{
		{Reference: interfaces.MediaReference{ID: item.ID.String()}},
		{Reference: interfaces.MediaReference{ID: uuid.NewString()}},
	})
	if err != nil {
		t.Fatalf("ResolveBatch: %v", err)
	}
	if len(assets) != 1 || assets[item.ID.String()] == nil {
		t.Fatalf("unexpected batch result %v", assets)
	}
}

func TestMemoryItemRepositoryListFiltersByBundle(t *testing.T) {
	repo := NewMemoryItemRepository()
	seedItem(t, repo, "public://a.jpg")
	if _, err := repo.Create(context.Background(), &Item{ID: uuid.New(), Bundle: "document", Name: "Brochure", FileURI: "public://b.pdf"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	images, err := repo.List(context.Background(), "image")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(images) != 1 || images[0].Bundle != "image" {
		t.Fatalf("unexpected images %+v", images)
	}

	all, _ := repo.List(context.Background(), "")
	if len(all) != 2 {
		t.Fatalf("expected two items, got %d", len(all))
	}
}
