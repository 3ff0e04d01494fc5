package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type faultRepository struct {
	mu     sync.RWMutex
	faults map[string]map[int64]*model.Fault
	nextID map[string]int64
}

func newFaultRepository() *faultRepository {
	return &faultRepository{
		faults: make(map[string]map[int64]*model.Fault),
		nextID: make(map[string]int64),
	}
}

func (r *faultRepository) ensureYacht(yachtID string) {
	if _, exists := r.faults[yachtID]; !exists {
		r.faults[yachtID] = make(map[int64]*model.Fault)
	}
	if _, exists := r.nextID[yachtID]; !exists {
		r.nextID[yachtID] = 1
	}
}

func copyFault(f *model.Fault) *model.Fault {
	cp := *f
	return &cp
}

func (r *faultRepository) Create(ctx context.Context, yachtID string, fault *model.Fault) (*model.Fault, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureYacht(yachtID)

	now := time.Now().UTC()
	created := copyFault(fault)
	created.ID = r.nextID[yachtID]
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID[yachtID]++

	r.faults[yachtID][created.ID] = created
	return copyFault(created), nil
}

func (r *faultRepository) Get(ctx context.Context, yachtID string, id int64) (*model.Fault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.faults[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "fault not found", goerr.V("id", id))
	}

	fault, exists := yacht[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "fault not found", goerr.V("id", id))
	}

	return copyFault(fault), nil
}

func (r *faultRepository) List(ctx context.Context, yachtID string) ([]*model.Fault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.faults[yachtID]
	if !exists {
		return []*model.Fault{}, nil
	}

	faults := make([]*model.Fault, 0, len(yacht))
	for _, fault := range yacht {
		faults = append(faults, copyFault(fault))
	}

	return faults, nil
}

func (r *faultRepository) Update(ctx context.Context, yachtID string, fault *model.Fault) (*model.Fault, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	yacht, exists := r.faults[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "fault not found", goerr.V("id", fault.ID))
	}

	existing, exists := yacht[fault.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "fault not found", goerr.V("id", fault.ID))
	}

	updated := copyFault(fault)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.faults[yachtID][updated.ID] = updated
	return copyFault(updated), nil
}
