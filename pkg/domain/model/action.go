package model

import (
	"strings"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// Reserved payload keys that the protocol manages itself. They ride in the
// payload on the wire but are never user-entered field values, and they are
// excluded from the action hash.
const (
	PayloadKeySignature         = "signature"
	PayloadKeyIdempotencyKey    = "idempotency_key"
	PayloadKeyOverrideDuplicate = "override_duplicate"
)

// ImplicitFieldYachtID is auto-populated from the session, never rendered.
const ImplicitFieldYachtID = "yacht_id"

// ActionSuggestion describes an invocable operation as declared to the UI.
type ActionSuggestion struct {
	ActionID       types.ActionID      `json:"action_id"`
	Label          string              `json:"label"`
	Variant        types.ActionVariant `json:"variant"`
	RequiredFields []string            `json:"required_fields"`
	StorageOptions *StorageOptions     `json:"storage_options,omitempty"`
}

// VisibleFields returns the required fields minus the auto-populated
// implicit set: exactly the fields the UI must render and validate as
// non-empty before submission.
func (s *ActionSuggestion) VisibleFields() []string {
	fields := make([]string, 0, len(s.RequiredFields))
	for _, f := range s.RequiredFields {
		if s.isImplicitField(f) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func (s *ActionSuggestion) isImplicitField(name string) bool {
	if name == ImplicitFieldYachtID {
		return true
	}
	if s.Variant == types.ActionVariantSigned && name == PayloadKeySignature {
		return true
	}
	return false
}

// StorageOptions is present only for actions that persist a file.
type StorageOptions struct {
	Bucket               string `json:"bucket"`
	PathPreview          string `json:"path_preview"`
	ConfirmationRequired bool   `json:"confirmation_required"`
}

// RenderPath renders the path template with the user-entered filename. When
// no filename is entered yet, the placeholder is shown as "<filename>" so
// the preview is still meaningful.
func (o *StorageOptions) RenderPath(filename string) string {
	if filename == "" {
		filename = "<filename>"
	}
	return strings.ReplaceAll(o.PathPreview, "{filename}", filename)
}
