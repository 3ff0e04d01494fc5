package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type inventoryRepository struct {
	mu     sync.RWMutex
	items  map[string]map[int64]*model.InventoryItem
	nextID map[string]int64
}

func newInventoryRepository() *inventoryRepository {
	return &inventoryRepository{
		items:  make(map[string]map[int64]*model.InventoryItem),
		nextID: make(map[string]int64),
	}
}

func (r *inventoryRepository) ensureYacht(yachtID string) {
	if _, exists := r.items[yachtID]; !exists {
		r.items[yachtID] = make(map[int64]*model.InventoryItem)
	}
	if _, exists := r.nextID[yachtID]; !exists {
		r.nextID[yachtID] = 1
	}
}

func copyInventoryItem(item *model.InventoryItem) *model.InventoryItem {
	cp := *item
	return &cp
}

func (r *inventoryRepository) Create(ctx context.Context, yachtID string, item *model.InventoryItem) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureYacht(yachtID)

	now := time.Now().UTC()
	created := copyInventoryItem(item)
	created.ID = r.nextID[yachtID]
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID[yachtID]++

	r.items[yachtID][created.ID] = created
	return copyInventoryItem(created), nil
}

func (r *inventoryRepository) Get(ctx context.Context, yachtID string, id int64) (*model.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.items[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "inventory item not found", goerr.V("id", id))
	}

	item, exists := yacht[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "inventory item not found", goerr.V("id", id))
	}

	return copyInventoryItem(item), nil
}

func (r *inventoryRepository) List(ctx context.Context, yachtID string) ([]*model.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.items[yachtID]
	if !exists {
		return []*model.InventoryItem{}, nil
	}

	items := make([]*model.InventoryItem, 0, len(yacht))
	for _, item := range yacht {
		items = append(items, copyInventoryItem(item))
	}

	return items, nil
}

func (r *inventoryRepository) Update(ctx context.Context, yachtID string, item *model.InventoryItem) (*model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	yacht, exists := r.items[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "inventory item not found", goerr.V("id", item.ID))
	}

	existing, exists := yacht[item.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "inventory item not found", goerr.V("id", item.ID))
	}

	updated := copyInventoryItem(item)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.items[yachtID][updated.ID] = updated
	return copyInventoryItem(updated), nil
}
