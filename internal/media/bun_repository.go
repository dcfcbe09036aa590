package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewItemRepository creates a go-repository-bun repository for media items.
func NewItemRepository(db *bun.DB) repository.Repository[*Item] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Item]{
		NewRecord:          func() *Item { return &Item{} },
		GetID:              func(item *Item) uuid.UUID { return item.ID },
		SetID:              func(item *Item, id uuid.UUID) { item.ID = id },
		GetIdentifier:      func() string { return "file_uri" },
		GetIdentifierValue: func(item *Item) string { return item.FileURI },
	})
}

// BunItemRepository implements ItemRepository with optional caching.
type BunItemRepository struct {
	repo repository.Repository[*Item]
}

// NewBunItemRepository creates a media repository without caching.
func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache creates a media repository with caching services.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunItemRepository {
	base := NewItemRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunItemRepository{repo: base}
}

func (r *BunItemRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	assignID(item)
	record, err := r.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "media_item", id.String())
	}
	return record, nil
}

func (r *BunItemRepository) List(ctx context.Context, bundle string) ([]*Item, error) {
	bundle = strings.TrimSpace(bundle)
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if bundle == "" {
				return q
			}
			return q.Where("?TableAlias.bundle = ?", bundle)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	return records, err
}

func (r *BunItemRepository) Update(ctx context.Context, item *Item) (*Item, error) {
	updated, err := r.repo.Update(ctx, item,
		repository.UpdateByID(item.ID.String()),
		repository.UpdateColumns(
			"bundle",
			"name",
			"file_uri",
			"alt",
			"mime_type",
			"width",
			"height",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "media_item", item.ID.String())
	}
	return updated, nil
}

func (r *BunItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Item{ID: id}); err != nil {
		return mapRepositoryError(err, "media_item", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}
