package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func TestExecuteRequestReservedKeys(t *testing.T) {
	t.Run("idempotency key extraction", func(t *testing.T) {
		req := &model.ExecuteRequest{
			Payload: map[string]any{model.PayloadKeyIdempotencyKey: "k-123"},
		}
		gt.Value(t, req.IdempotencyKey()).Equal("k-123")
	})

	t.Run("missing or mistyped key is empty", func(t *testing.T) {
		gt.Value(t, (&model.ExecuteRequest{Payload: map[string]any{}}).IdempotencyKey()).Equal("")
		req := &model.ExecuteRequest{Payload: map[string]any{model.PayloadKeyIdempotencyKey: 42}}
		gt.Value(t, req.IdempotencyKey()).Equal("")
	})

	t.Run("override flag", func(t *testing.T) {
		req := &model.ExecuteRequest{
			Payload: map[string]any{model.PayloadKeyOverrideDuplicate: true},
		}
		gt.Bool(t, req.OverrideDuplicate()).True()
		gt.Bool(t, (&model.ExecuteRequest{Payload: map[string]any{}}).OverrideDuplicate()).False()
	})
}

func TestExecuteRequestSignature(t *testing.T) {
	t.Run("absent signature is nil without error", func(t *testing.T) {
		req := &model.ExecuteRequest{Payload: map[string]any{"outcome": "completed"}}
		sig, err := req.Signature()
		gt.NoError(t, err)
		gt.Value(t, sig).Nil()
	})

	t.Run("decodes the generic JSON form", func(t *testing.T) {
		signedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		// Round-trip through JSON the way the HTTP controller receives it
		raw, err := json.Marshal(&model.Signature{
			SignerID:   "chief-eng",
			SignedAt:   signedAt,
			DeviceID:   "bridge-tablet",
			ActionHash: "abc123",
		})
		gt.NoError(t, err).Required()
		var generic map[string]any
		gt.NoError(t, json.Unmarshal(raw, &generic)).Required()

		req := &model.ExecuteRequest{Payload: map[string]any{model.PayloadKeySignature: generic}}
		sig, err := req.Signature()
		gt.NoError(t, err).Required()
		gt.Value(t, sig).NotNil()
		gt.Value(t, sig.SignerID).Equal("chief-eng")
		gt.Value(t, sig.ActionHash).Equal("abc123")
		gt.Bool(t, sig.SignedAt.Equal(signedAt)).True()
	})

	t.Run("accepts the struct attached directly", func(t *testing.T) {
		attached := &model.Signature{SignerID: "u1", ActionHash: "h"}
		req := &model.ExecuteRequest{Payload: map[string]any{model.PayloadKeySignature: attached}}
		sig, err := req.Signature()
		gt.NoError(t, err).Required()
		gt.Value(t, sig).Equal(attached)
	})
}

func TestExecuteRequestFieldAccessors(t *testing.T) {
	req := &model.ExecuteRequest{Payload: map[string]any{
		"title":    "Bilge pump service",
		"passed":   true,
		"as_json":  float64(12), // JSON numbers decode as float64
		"as_int":   7,
		"as_int64": int64(-3),
	}}

	gt.Value(t, req.FieldString("title")).Equal("Bilge pump service")
	gt.Value(t, req.FieldString("missing")).Equal("")
	gt.Bool(t, req.FieldBool("passed")).True()
	gt.Bool(t, req.FieldBool("missing")).False()

	v, ok := req.FieldInt("as_json")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal(int64(12))

	v, ok = req.FieldInt("as_int")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal(int64(7))

	v, ok = req.FieldInt("as_int64")
	gt.Bool(t, ok).True()
	gt.Value(t, v).Equal(int64(-3))

	_, ok = req.FieldInt("title")
	gt.Bool(t, ok).False()
}

func TestNewDuplicateInfo(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		wantDays  int
	}{
		{name: "same day", createdAt: now.Add(-5 * time.Hour), wantDays: 0},
		{name: "exactly three days", createdAt: now.Add(-72 * time.Hour), wantDays: 3},
		{name: "partial days floor down", createdAt: now.Add(-71 * time.Hour), wantDays: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dup := model.NewDuplicateInfo("work_order", 9, tt.createdAt, now)
			gt.Value(t, dup.EntityKind).Equal("work_order")
			gt.Value(t, dup.EntityID).Equal(int64(9))
			gt.Number(t, dup.DaysAgo).Equal(tt.wantDays)
		})
	}
}

func TestExecuteResultOK(t *testing.T) {
	gt.Bool(t, (&model.ExecuteResult{Status: types.ExecStatusSuccess}).OK()).True()
	gt.Bool(t, (&model.ExecuteResult{Status: types.ExecStatusError}).OK()).False()
	gt.Bool(t, (&model.ExecuteResult{}).OK()).False()
}
