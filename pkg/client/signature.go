package client

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// ErrSignatureGeneration is the dedicated failure for hash/entropy problems
// during signing. Dispatch must never silently skip signing on this error.
var ErrSignatureGeneration = goerr.New("failed to generate signature")

// SignatureBuilder produces proof-of-intent signatures for SIGNED actions.
// The device ID is session-scoped: read from the session when present,
// synthesized once and persisted for the session's lifetime otherwise.
type SignatureBuilder struct {
	mu      sync.Mutex
	session *model.Session
	now     func() time.Time
}

// NewSignatureBuilder binds a builder to the session
func NewSignatureBuilder(session *model.Session) *SignatureBuilder {
	return &SignatureBuilder{
		session: session,
		now:     time.Now,
	}
}

// Build canonicalizes {action, context, payload}, hashes it, resolves the
// device ID, and stamps the signing time. The hash is a pure function of the
// inputs; SignedAt is not. The server checks both the content hash and the
// signing-time freshness.
func (b *SignatureBuilder) Build(actionID types.ActionID, context map[string]string, payload map[string]any) (*model.Signature, error) {
	if b.session == nil || b.session.UserID == "" {
		return nil, goerr.Wrap(ErrSignatureGeneration, "no signer in session")
	}

	hash, err := model.ActionHash(actionID, context, payload)
	if err != nil {
		return nil, goerr.Wrap(ErrSignatureGeneration, "action hash failed",
			goerr.V("action_id", actionID))
	}

	deviceID, err := b.deviceID()
	if err != nil {
		return nil, err
	}

	return &model.Signature{
		SignerID:   b.session.UserID,
		SignedAt:   b.now(),
		DeviceID:   deviceID,
		ActionHash: hash,
	}, nil
}

// deviceID returns the session device ID, synthesizing and persisting one
// when absent: a coarse client fingerprint plus random entropy.
func (b *SignatureBuilder) deviceID() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session.DeviceID != "" {
		return b.session.DeviceID, nil
	}

	entropy := make([]byte, 8)
	if _, err := rand.Read(entropy); err != nil {
		return "", goerr.Wrap(ErrSignatureGeneration, "entropy source failed")
	}

	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}

	b.session.DeviceID = host + "-" + runtime.GOOS + "-" + hex.EncodeToString(entropy)
	return b.session.DeviceID, nil
}
