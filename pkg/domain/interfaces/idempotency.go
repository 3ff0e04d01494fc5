package interfaces

import (
	"context"
	"time"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
)

// IdempotencyRepository records the first outcome of each logical attempt.
// PutIfAbsent is the dedup primitive: it must be atomic per key so that two
// concurrent executes with the same key cannot both claim it.
type IdempotencyRepository interface {
	// PutIfAbsent stores the record unless the key already exists. Returns
	// the stored record and true when this call claimed the key, or the
	// pre-existing record and false otherwise.
	PutIfAbsent(ctx context.Context, record *model.IdempotencyRecord) (*model.IdempotencyRecord, bool, error)

	// Get retrieves a record by key. Not-found is an error.
	Get(ctx context.Context, key string) (*model.IdempotencyRecord, error)

	// Update overwrites an existing record (used to attach the final result
	// after the handler runs)
	Update(ctx context.Context, record *model.IdempotencyRecord) error

	// PurgeExpired removes records whose dedup window has passed, returning
	// the number removed
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// AuditRepository is the append-only execution trail
type AuditRepository interface {
	Put(ctx context.Context, yachtID string, record *model.AuditRecord) error
	List(ctx context.Context, yachtID string) ([]*model.AuditRecord, error)
}
