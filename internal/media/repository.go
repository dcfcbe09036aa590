package media

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-activity-finder/internal/identity"
)

// ItemRepository persists media library items.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, bundle string) ([]*Item, error)
	Update(ctx context.Context, item *Item) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a media item cannot be located.
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

// NewMemoryItemRepository constructs an in-memory media repository.
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{byID: make(map[uuid.UUID]*Item)}
}

type memoryItemRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Item
}

func (m *memoryItemRepository) Create(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneItem(item)
	assignID(cloned)
	m.byID[cloned.ID] = cloned
	return cloneItem(cloned), nil
}

func (m *memoryItemRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "media_item", Key: id.String()}
	}
	return cloneItem(record), nil
}

func (m *memoryItemRepository) List(_ context.Context, bundle string) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*Item, 0, len(m.byID))
	for _, item := range m.byID {
		if bundle != "" && item.Bundle != bundle {
			continue
		}
		items = append(items, cloneItem(item))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (m *memoryItemRepository) Update(_ context.Context, item *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[item.ID]; !ok {
		return nil, &NotFoundError{Resource: "media_item", Key: item.ID.String()}
	}
	cloned := cloneItem(item)
	m.byID[cloned.ID] = cloned
	return cloneItem(cloned), nil
}

func (m *memoryItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "media_item", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}

func cloneItem(item *Item) *Item {
	if item == nil {
		return nil
	}
	cloned := *item
	return &cloned
}

// assignID derives a stable ID from bundle and file URI when none is set, so
// re-importing the same file yields the same reference.
func assignID(item *Item) {
	if item != nil && item.ID == uuid.Nil {
		item.ID = identity.MediaUUID(item.Bundle, item.FileURI)
	}
}
