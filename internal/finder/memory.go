package finder

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryBlockRepository constructs an in-memory block repository.
func NewMemoryBlockRepository() BlockRepository {
	return &memoryBlockRepository{byID: make(map[uuid.UUID]*Block)}
}

type memoryBlockRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Block
}

func (m *memoryBlockRepository) Create(_ context.Context, block *Block) (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneBlock(block)
	m.byID[cloned.ID] = cloned
	return cloneBlock(cloned), nil
}

func (m *memoryBlockRepository) GetByID(_ context.Context, id uuid.UUID) (*Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "activity_finder_block", Key: id.String()}
	}
	return cloneBlock(record), nil
}

func (m *memoryBlockRepository) List(_ context.Context, region string) ([]*Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Block, 0, len(m.byID))
	for _, record := range m.byID {
		if region != "" && record.Region != region {
			continue
		}
		records = append(records, cloneBlock(record))
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Region != records[j].Region {
			return records[i].Region < records[j].Region
		}
		return records[i].Label < records[j].Label
	})
	return records, nil
}

func (m *memoryBlockRepository) Update(_ context.Context, block *Block) (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[block.ID]; !ok {
		return nil, &NotFoundError{Resource: "activity_finder_block", Key: block.ID.String()}
	}
	cloned := cloneBlock(block)
	m.byID[cloned.ID] = cloned
	return cloneBlock(cloned), nil
}

func (m *memoryBlockRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "activity_finder_block", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}

func cloneBlock(block *Block) *Block {
	if block == nil {
		return nil
	}
	cloned := *block
	return &cloned
}
