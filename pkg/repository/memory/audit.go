package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type auditRepository struct {
	mu      sync.RWMutex
	records map[string][]*model.AuditRecord
}

func newAuditRepository() *auditRepository {
	return &auditRepository{
		records: make(map[string][]*model.AuditRecord),
	}
}

func copyAuditRecord(rec *model.AuditRecord) *model.AuditRecord {
	cp := *rec
	return &cp
}

func (r *auditRepository) Put(ctx context.Context, yachtID string, record *model.AuditRecord) error {
	if record.ID == "" {
		return goerr.New("audit record ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[yachtID] = append(r.records[yachtID], copyAuditRecord(record))
	return nil
}

func (r *auditRepository) List(ctx context.Context, yachtID string) ([]*model.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.AuditRecord, 0, len(r.records[yachtID]))
	for _, rec := range r.records[yachtID] {
		records = append(records, copyAuditRecord(rec))
	}

	return records, nil
}
