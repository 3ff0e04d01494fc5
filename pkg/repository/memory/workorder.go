package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type workOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]map[int64]*model.WorkOrder
	nextID map[string]int64
}

func newWorkOrderRepository() *workOrderRepository {
	return &workOrderRepository{
		orders: make(map[string]map[int64]*model.WorkOrder),
		nextID: make(map[string]int64),
	}
}

func (r *workOrderRepository) ensureYacht(yachtID string) {
	if _, exists := r.orders[yachtID]; !exists {
		r.orders[yachtID] = make(map[int64]*model.WorkOrder)
	}
	if _, exists := r.nextID[yachtID]; !exists {
		r.nextID[yachtID] = 1
	}
}

// copyWorkOrder creates a deep copy of a work order
func copyWorkOrder(wo *model.WorkOrder) *model.WorkOrder {
	assigneeIDs := make([]string, len(wo.AssigneeIDs))
	copy(assigneeIDs, wo.AssigneeIDs)

	notes := make([]string, len(wo.Notes))
	copy(notes, wo.Notes)

	var completedAt *time.Time
	if wo.CompletedAt != nil {
		t := *wo.CompletedAt
		completedAt = &t
	}

	return &model.WorkOrder{
		ID:                 wo.ID,
		FaultID:            wo.FaultID,
		Title:              wo.Title,
		Description:        wo.Description,
		Priority:           wo.Priority,
		Status:             wo.Status,
		Outcome:            wo.Outcome,
		CompletionNote:     wo.CompletionNote,
		QualityCheckPassed: wo.QualityCheckPassed,
		AssigneeIDs:        assigneeIDs,
		Notes:              notes,
		CreatedBy:          wo.CreatedBy,
		CompletedBy:        wo.CompletedBy,
		CompletedAt:        completedAt,
		CreatedAt:          wo.CreatedAt,
		UpdatedAt:          wo.UpdatedAt,
	}
}

func (r *workOrderRepository) Create(ctx context.Context, yachtID string, wo *model.WorkOrder) (*model.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureYacht(yachtID)

	now := time.Now().UTC()
	created := copyWorkOrder(wo)
	created.ID = r.nextID[yachtID]
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID[yachtID]++

	r.orders[yachtID][created.ID] = created
	return copyWorkOrder(created), nil
}

func (r *workOrderRepository) Get(ctx context.Context, yachtID string, id int64) (*model.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.orders[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "work order not found", goerr.V("id", id))
	}

	wo, exists := yacht[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "work order not found", goerr.V("id", id))
	}

	return copyWorkOrder(wo), nil
}

func (r *workOrderRepository) List(ctx context.Context, yachtID string) ([]*model.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.orders[yachtID]
	if !exists {
		return []*model.WorkOrder{}, nil
	}

	orders := make([]*model.WorkOrder, 0, len(yacht))
	for _, wo := range yacht {
		orders = append(orders, copyWorkOrder(wo))
	}

	return orders, nil
}

func (r *workOrderRepository) Update(ctx context.Context, yachtID string, wo *model.WorkOrder) (*model.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	yacht, exists := r.orders[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "work order not found", goerr.V("id", wo.ID))
	}

	existing, exists := yacht[wo.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "work order not found", goerr.V("id", wo.ID))
	}

	updated := copyWorkOrder(wo)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.orders[yachtID][updated.ID] = updated
	return copyWorkOrder(updated), nil
}

func (r *workOrderRepository) GetByFault(ctx context.Context, yachtID string, faultID int64) (*model.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.orders[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "no work order for fault", goerr.V("fault_id", faultID))
	}

	for _, wo := range yacht {
		if wo.FaultID == faultID {
			return copyWorkOrder(wo), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "no work order for fault", goerr.V("fault_id", faultID))
}
