package client_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/client"
	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func TestSignatureBuilderBuild(t *testing.T) {
	session := &model.Session{
		UserID:   "chief-eng",
		Role:     types.RoleHODEngineering,
		YachtID:  "y1",
		DeviceID: "bridge-tablet",
	}
	entityCtx := map[string]string{"work_order_id": "42"}
	payload := map[string]any{"outcome": "completed", "quality_check_passed": true}

	t.Run("hash is a pure function of the inputs", func(t *testing.T) {
		b := client.NewSignatureBuilder(session)

		clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		client.SetBuilderClock(b, func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		})

		sig1, err := b.Build("complete_work_order", entityCtx, payload)
		gt.NoError(t, err).Required()
		sig2, err := b.Build("complete_work_order", entityCtx, payload)
		gt.NoError(t, err).Required()

		gt.Value(t, sig1.ActionHash).Equal(sig2.ActionHash)
		// SignedAt reflects signing time, not content
		gt.Bool(t, sig2.SignedAt.After(sig1.SignedAt)).True()
	})

	t.Run("signature carries the session identity", func(t *testing.T) {
		b := client.NewSignatureBuilder(session)
		sig, err := b.Build("complete_work_order", entityCtx, payload)
		gt.NoError(t, err).Required()

		gt.Value(t, sig.SignerID).Equal("chief-eng")
		gt.Value(t, sig.DeviceID).Equal("bridge-tablet")
	})

	t.Run("hash matches the server-side recomputation", func(t *testing.T) {
		b := client.NewSignatureBuilder(session)
		sig, err := b.Build("complete_work_order", entityCtx, payload)
		gt.NoError(t, err).Required()

		gt.NoError(t, sig.Verify("complete_work_order", entityCtx, payload))
	})

	t.Run("no signer in session fails", func(t *testing.T) {
		b := client.NewSignatureBuilder(&model.Session{})
		_, err := b.Build("complete_work_order", entityCtx, payload)
		gt.Error(t, err).Is(client.ErrSignatureGeneration)
	})

	t.Run("nil session fails", func(t *testing.T) {
		b := client.NewSignatureBuilder(nil)
		_, err := b.Build("complete_work_order", entityCtx, payload)
		gt.Error(t, err).Is(client.ErrSignatureGeneration)
	})
}

func TestSignatureBuilderDeviceID(t *testing.T) {
	t.Run("synthesized once and persisted on the session", func(t *testing.T) {
		session := &model.Session{UserID: "u1"}
		b := client.NewSignatureBuilder(session)

		sig1, err := b.Build("complete_work_order", nil, nil)
		gt.NoError(t, err).Required()
		sig2, err := b.Build("complete_work_order", nil, nil)
		gt.NoError(t, err).Required()

		gt.String(t, sig1.DeviceID).NotEqual("")
		gt.Value(t, sig2.DeviceID).Equal(sig1.DeviceID)
		gt.Value(t, session.DeviceID).Equal(sig1.DeviceID)
	})

	t.Run("a fresh session gets a fresh device ID", func(t *testing.T) {
		b1 := client.NewSignatureBuilder(&model.Session{UserID: "u1"})
		b2 := client.NewSignatureBuilder(&model.Session{UserID: "u1"})

		sig1, err := b1.Build("complete_work_order", nil, nil)
		gt.NoError(t, err).Required()
		sig2, err := b2.Build("complete_work_order", nil, nil)
		gt.NoError(t, err).Required()

		gt.Value(t, sig1.DeviceID).NotEqual(sig2.DeviceID)
	})
}

func TestNewIdempotencyKey(t *testing.T) {
	k1 := client.NewIdempotencyKey()
	k2 := client.NewIdempotencyKey()

	gt.String(t, k1).NotEqual("")
	gt.Value(t, k1).NotEqual(k2)
}
