package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// Signature is the proof of authorized intent attached to SIGNED actions.
// SignedAt is captured at signing time, not submission time. ActionHash
// binds the signature to the exact submitted values: if any field changes
// after capture, recomputation no longer matches and the signature is stale.
type Signature struct {
	SignerID   string    `json:"signer_id"`
	SignedAt   time.Time `json:"signed_at"`
	DeviceID   string    `json:"device_id"`
	ActionHash string    `json:"action_hash"`
}

// hashEnvelope fixes the canonical structure the hash covers. Maps marshal
// with sorted keys, so identical inputs always produce identical bytes.
type hashEnvelope struct {
	Action        string            `json:"action"`
	EntityContext map[string]string `json:"entity_context"`
	PayloadFields map[string]any    `json:"payload_fields"`
}

// ActionHash computes the SHA-256 hex digest over the canonical JSON of the
// action, its entity context, and the user-entered payload fields. Reserved
// protocol keys (signature, idempotency_key, override_duplicate) are not
// part of the signed content.
func ActionHash(actionID types.ActionID, context map[string]string, payload map[string]any) (string, error) {
	fields := make(map[string]any, len(payload))
	for k, v := range payload {
		switch k {
		case PayloadKeySignature, PayloadKeyIdempotencyKey, PayloadKeyOverrideDuplicate:
			continue
		}
		fields[k] = v
	}

	envelope := hashEnvelope{
		Action:        actionID.String(),
		EntityContext: context,
		PayloadFields: fields,
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate signature hash",
			goerr.V("action_id", actionID))
	}

	digest := sha256.Sum256(raw)
	return hex.EncodeToString(digest[:]), nil
}

// Verify recomputes the action hash for the given request content and checks
// it against the captured one. A mismatch means the payload was modified
// after signing; the signature must be rejected, never silently re-signed.
func (s *Signature) Verify(actionID types.ActionID, context map[string]string, payload map[string]any) error {
	if s.SignerID == "" {
		return goerr.New("signature has no signer")
	}
	if s.ActionHash == "" {
		return goerr.New("signature has no action hash")
	}

	hash, err := ActionHash(actionID, context, payload)
	if err != nil {
		return err
	}

	if hash != s.ActionHash {
		return goerr.New("stale signature: action hash mismatch",
			goerr.V("action_id", actionID),
			goerr.V("expected", hash),
			goerr.V("got", s.ActionHash))
	}

	return nil
}

// Age returns how long ago the signature was captured
func (s *Signature) Age(now time.Time) time.Duration {
	return now.Sub(s.SignedAt)
}
