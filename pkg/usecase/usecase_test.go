package usecase_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/repository/memory"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
)

const testYachtID = "yacht-aurora"

// testRegistry mirrors the built-in catalog shape with every protocol feature
// represented: duplicate detection, SIGNED variants, role floors, storage.
func testRegistry(t *testing.T) *model.ActionRegistry {
	t.Helper()

	registry, err := model.NewActionRegistry(
		&model.ActionSpec{
			ID:             "create_work_order",
			Label:          "Create work order",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id", "title", "description", "priority"},
			DuplicateCheck: model.DuplicateCheckWorkOrderForFault,
		},
		&model.ActionSpec{
			ID:             "complete_work_order",
			Label:          "Complete work order",
			Variant:        types.ActionVariantSigned,
			RequiredFields: []string{"yacht_id", "outcome", "completion_note", "signature"},
		},
		&model.ActionSpec{
			ID:      "archive_work_order",
			Label:   "Archive work order",
			Variant: types.ActionVariantStandard,
			MinRole: types.RoleCaptain,
		},
		&model.ActionSpec{
			ID:             "add_crew_note",
			Label:          "Add crew note",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id", "note"},
		},
		&model.ActionSpec{
			ID:             "adjust_inventory",
			Label:          "Adjust inventory",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id", "quantity_change", "reason"},
		},
		&model.ActionSpec{
			ID:             "dismiss_compliance_warning",
			Label:          "Dismiss compliance warning",
			Variant:        types.ActionVariantSigned,
			RequiredFields: []string{"yacht_id", "dismiss_reason", "signature"},
			MinRole:        types.RoleHODDeck,
		},
		&model.ActionSpec{
			ID:             "upload_document",
			Label:          "Upload document",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id", "title", "filename"},
			StorageOptions: &model.StorageOptions{
				Bucket:               "quartermaster-documents",
				PathPreview:          "docs/{filename}",
				ConfirmationRequired: true,
			},
		},
	)
	gt.NoError(t, err).Required()
	return registry
}

func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, testRegistry(t), opts...)
	return uc, repo
}

func testToken(role types.Role) *auth.Token {
	return &auth.Token{
		Sub:     "user-1",
		Role:    role,
		YachtID: testYachtID,
	}
}

// signedPayload computes the proof-of-intent signature over the payload and
// attaches it, the way the client's signing step does
func signedPayload(t *testing.T, actionID types.ActionID, entityCtx map[string]string, payload map[string]any, signedAt time.Time) map[string]any {
	t.Helper()

	hash, err := model.ActionHash(actionID, entityCtx, payload)
	gt.NoError(t, err).Required()

	payload[model.PayloadKeySignature] = &model.Signature{
		SignerID:   "user-1",
		SignedAt:   signedAt,
		DeviceID:   "bridge-tablet",
		ActionHash: hash,
	}
	return payload
}

func fixedClock(at time.Time) usecase.Option {
	return usecase.WithNow(func() time.Time { return at })
}

func TestUseCasesDefaults(t *testing.T) {
	uc, repo := newTestUseCases(t)
	gt.Value(t, uc.Registry()).NotNil()
	gt.Value(t, uc.Repository()).Equal(repo)
}
