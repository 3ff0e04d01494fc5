package model

import (
	"time"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// AuditRecord is the append-only trail of action executions. Written
// best-effort after every dispatch, success or error.
type AuditRecord struct {
	ID             string
	ActionID       types.ActionID
	YachtID        string
	ActorID        string
	ActorRole      types.Role
	Status         types.ExecStatus
	ErrorCode      types.ErrorCode
	IdempotencyKey string
	SignatureHash  string
	CreatedAt      time.Time
}

// IdempotencyRecord pins the first outcome of a logical attempt. A repeated
// execute with the same key inside the window returns RecordedResult without
// re-running the handler (at-most-once effect).
type IdempotencyRecord struct {
	Key            string
	ActionID       types.ActionID
	RecordedResult *ExecuteResult
	FirstSeenAt    time.Time
	ExpiresAt      time.Time
}

// Expired reports whether the dedup window for this record has passed
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
