package finder

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BlockRepository persists block placements.
type BlockRepository interface {
	Create(ctx context.Context, block *Block) (*Block, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Block, error)
	List(ctx context.Context, region string) ([]*Block, error)
	Update(ctx context.Context, block *Block) (*Block, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a block placement cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NewBlockRepository creates a go-repository-bun repository for block placements.
func NewBlockRepository(db *bun.DB) repository.Repository[*Block] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Block]{
		NewRecord:          func() *Block { return &Block{} },
		GetID:              func(block *Block) uuid.UUID { return block.ID },
		SetID:              func(block *Block, id uuid.UUID) { block.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(block *Block) string { return block.ID.String() },
	})
}
