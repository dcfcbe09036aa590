package finder

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

// BunBlockRepository implements BlockRepository with optional caching.
type BunBlockRepository struct {
	repo repository.Repository[*Block]
}

// NewBunBlockRepository creates a block repository without caching.
func NewBunBlockRepository(db *bun.DB) *BunBlockRepository {
	return NewBunBlockRepositoryWithCache(db, nil, nil)
}

// NewBunBlockRepositoryWithCache creates a block repository with caching services.
func NewBunBlockRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunBlockRepository {
	base := NewBlockRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunBlockRepository{repo: base}
}

func (r *BunBlockRepository) Create(ctx context.Context, block *Block) (*Block, error) {
	record, err := r.repo.Create(ctx, block)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunBlockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Block, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "activity_finder_block", id.String())
	}
	return record, nil
}

func (r *BunBlockRepository) List(ctx context.Context, region string) ([]*Block, error) {
	region = strings.TrimSpace(region)
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if region == "" {
				return q
			}
			return q.Where("?TableAlias.region = ?", region)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.region ASC, ?TableAlias.label ASC")
		}),
	)
	return records, err
}

func (r *BunBlockRepository) Update(ctx context.Context, block *Block) (*Block, error) {
	updated, err := r.repo.Update(ctx, block,
		repository.UpdateByID(block.ID.String()),
		repository.UpdateColumns(
			"region",
			"label",
			"legacy_mode",
			"background_image",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "activity_finder_block", block.ID.String())
	}
	return updated, nil
}

func (r *BunBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Block{ID: id}); err != nil {
		return mapRepositoryError(err, "activity_finder_block", id.String())
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
