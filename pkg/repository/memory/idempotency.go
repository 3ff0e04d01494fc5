package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

type idempotencyRepository struct {
	mu      sync.Mutex
	records map[string]*model.IdempotencyRecord
}

func newIdempotencyRepository() *idempotencyRepository {
	return &idempotencyRepository{
		records: make(map[string]*model.IdempotencyRecord),
	}
}

func copyIdempotencyRecord(rec *model.IdempotencyRecord) *model.IdempotencyRecord {
	cp := *rec
	if rec.RecordedResult != nil {
		result := *rec.RecordedResult
		cp.RecordedResult = &result
	}
	return &cp
}

func (r *idempotencyRepository) PutIfAbsent(ctx context.Context, record *model.IdempotencyRecord) (*model.IdempotencyRecord, bool, error) {
	if record.Key == "" {
		return nil, false, goerr.New("idempotency key is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[record.Key]; ok {
		return copyIdempotencyRecord(existing), false, nil
	}

	stored := copyIdempotencyRecord(record)
	r.records[record.Key] = stored
	return copyIdempotencyRecord(stored), true, nil
}

func (r *idempotencyRepository) Get(ctx context.Context, key string) (*model.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[key]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "idempotency record not found", goerr.V("key", key))
	}

	return copyIdempotencyRecord(record), nil
}

func (r *idempotencyRepository) Update(ctx context.Context, record *model.IdempotencyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.Key]; !ok {
		return goerr.Wrap(ErrNotFound, "idempotency record not found", goerr.V("key", record.Key))
	}

	r.records[record.Key] = copyIdempotencyRecord(record)
	return nil
}

func (r *idempotencyRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for key, record := range r.records {
		if record.Expired(now) {
			delete(r.records, key)
			purged++
		}
	}

	return purged, nil
}
