package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type complianceRepository struct {
	mu       sync.RWMutex
	warnings map[string]map[int64]*model.ComplianceWarning
	nextID   map[string]int64
}

func newComplianceRepository() *complianceRepository {
	return &complianceRepository{
		warnings: make(map[string]map[int64]*model.ComplianceWarning),
		nextID:   make(map[string]int64),
	}
}

func (r *complianceRepository) ensureYacht(yachtID string) {
	if _, exists := r.warnings[yachtID]; !exists {
		r.warnings[yachtID] = make(map[int64]*model.ComplianceWarning)
	}
	if _, exists := r.nextID[yachtID]; !exists {
		r.nextID[yachtID] = 1
	}
}

func copyComplianceWarning(w *model.ComplianceWarning) *model.ComplianceWarning {
	cp := *w
	return &cp
}

func (r *complianceRepository) Create(ctx context.Context, yachtID string, warning *model.ComplianceWarning) (*model.ComplianceWarning, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureYacht(yachtID)

	now := time.Now().UTC()
	created := copyComplianceWarning(warning)
	created.ID = r.nextID[yachtID]
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID[yachtID]++

	r.warnings[yachtID][created.ID] = created
	return copyComplianceWarning(created), nil
}

func (r *complianceRepository) Get(ctx context.Context, yachtID string, id int64) (*model.ComplianceWarning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.warnings[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "compliance warning not found", goerr.V("id", id))
	}

	warning, exists := yacht[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "compliance warning not found", goerr.V("id", id))
	}

	return copyComplianceWarning(warning), nil
}

func (r *complianceRepository) List(ctx context.Context, yachtID string) ([]*model.ComplianceWarning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	yacht, exists := r.warnings[yachtID]
	if !exists {
		return []*model.ComplianceWarning{}, nil
	}

	warnings := make([]*model.ComplianceWarning, 0, len(yacht))
	for _, warning := range yacht {
		warnings = append(warnings, copyComplianceWarning(warning))
	}

	return warnings, nil
}

func (r *complianceRepository) Update(ctx context.Context, yachtID string, warning *model.ComplianceWarning) (*model.ComplianceWarning, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	yacht, exists := r.warnings[yachtID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "compliance warning not found", goerr.V("id", warning.ID))
	}

	existing, exists := yacht[warning.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "compliance warning not found", goerr.V("id", warning.ID))
	}

	updated := copyComplianceWarning(warning)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.warnings[yachtID][updated.ID] = updated
	return copyComplianceWarning(updated), nil
}
