package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// ExecuteRequest is the body of POST /v1/actions/execute.
type ExecuteRequest struct {
	Action  types.ActionID    `json:"action"`
	Context map[string]string `json:"context"`
	Payload map[string]any    `json:"payload"`
}

// IdempotencyKey extracts the reserved idempotency key from the payload
func (r *ExecuteRequest) IdempotencyKey() string {
	if key, ok := r.Payload[PayloadKeyIdempotencyKey].(string); ok {
		return key
	}
	return ""
}

// OverrideDuplicate reports whether the client chose to create anyway after
// a duplicate warning
func (r *ExecuteRequest) OverrideDuplicate() bool {
	if v, ok := r.Payload[PayloadKeyOverrideDuplicate].(bool); ok {
		return v
	}
	return false
}

// Signature extracts and decodes the signature from the payload. Returns
// nil without error when no signature is attached.
func (r *ExecuteRequest) Signature() (*Signature, error) {
	raw, ok := r.Payload[PayloadKeySignature]
	if !ok || raw == nil {
		return nil, nil
	}

	// The payload arrives as generic JSON, so the signature is a nested map
	// unless the caller attached the struct directly.
	if sig, ok := raw.(*Signature); ok {
		return sig, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode signature payload")
	}
	var sig Signature
	if err := json.Unmarshal(encoded, &sig); err != nil {
		return nil, goerr.Wrap(err, "failed to decode signature payload")
	}
	return &sig, nil
}

// FieldString returns a payload field as a string, empty when absent
func (r *ExecuteRequest) FieldString(name string) string {
	if v, ok := r.Payload[name].(string); ok {
		return v
	}
	return ""
}

// FieldBool returns a payload field as a bool
func (r *ExecuteRequest) FieldBool(name string) bool {
	if v, ok := r.Payload[name].(bool); ok {
		return v
	}
	return false
}

// FieldInt returns a payload field as an int64. JSON numbers decode as
// float64, so both representations are accepted.
func (r *ExecuteRequest) FieldInt(name string) (int64, bool) {
	switch v := r.Payload[name].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// ExecuteResult is the normalized outcome of an action execution. Transient:
// consumed immediately by the invoking component, never persisted client-side.
type ExecuteResult struct {
	Status    types.ExecStatus `json:"status"`
	Message   string           `json:"message,omitempty"`
	Result    map[string]any   `json:"result,omitempty"`
	ErrorCode types.ErrorCode  `json:"error_code,omitempty"`
}

// OK reports whether the execution succeeded
func (r *ExecuteResult) OK() bool {
	return r.Status == types.ExecStatusSuccess
}

// PreviewResult is the response of POST /v1/actions/{action_id}/preview.
// Preview is read-only and repeatable: it must never mutate state.
type PreviewResult struct {
	Summary           string            `json:"summary"`
	Changes           map[string]string `json:"changes"`
	SideEffects       []string          `json:"side_effects"`
	RequiresSignature bool              `json:"requires_signature"`
	Warning           string            `json:"warning,omitempty"`

	// Duplicate is set when prefill found a pre-existing related entity.
	// It drives the duplicate_warning state rather than an error.
	Duplicate *DuplicateInfo `json:"duplicate,omitempty"`
}

// DuplicateInfo describes a pre-existing related entity found during
// prefill. Not an error: it drives the duplicate_warning flow state.
type DuplicateInfo struct {
	EntityKind string    `json:"entity_kind"`
	EntityID   int64     `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
	DaysAgo    int       `json:"days_ago"`
}

// NewDuplicateInfo computes days_ago as whole elapsed days at now
func NewDuplicateInfo(kind string, id int64, createdAt, now time.Time) *DuplicateInfo {
	return &DuplicateInfo{
		EntityKind: kind,
		EntityID:   id,
		CreatedAt:  createdAt,
		DaysAgo:    int(now.Sub(createdAt).Hours() / 24),
	}
}
