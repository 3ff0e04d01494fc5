package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func TestVisibleFields(t *testing.T) {
	t.Run("yacht_id is never rendered", func(t *testing.T) {
		s := &model.ActionSuggestion{
			ActionID:       "add_crew_note",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id", "note"},
		}
		gt.Array(t, s.VisibleFields()).Equal([]string{"note"})
	})

	t.Run("signature is implicit for SIGNED actions", func(t *testing.T) {
		s := &model.ActionSuggestion{
			ActionID:       "complete_work_order",
			Variant:        types.ActionVariantSigned,
			RequiredFields: []string{"yacht_id", "outcome", "completion_note", "signature"},
		}
		gt.Array(t, s.VisibleFields()).Equal([]string{"outcome", "completion_note"})
	})

	t.Run("a STANDARD action may declare a literal signature field", func(t *testing.T) {
		s := &model.ActionSuggestion{
			ActionID:       "log_signature_sample",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"signature"},
		}
		gt.Array(t, s.VisibleFields()).Equal([]string{"signature"})
	})

	t.Run("empty declaration yields no visible fields", func(t *testing.T) {
		s := &model.ActionSuggestion{
			ActionID:       "archive_work_order",
			Variant:        types.ActionVariantStandard,
			RequiredFields: []string{"yacht_id"},
		}
		gt.Array(t, s.VisibleFields()).Length(0)
	})
}

func TestStorageOptionsRenderPath(t *testing.T) {
	opts := &model.StorageOptions{
		Bucket:      "quartermaster-documents",
		PathPreview: "docs/{filename}",
	}

	t.Run("filename substitutes the placeholder", func(t *testing.T) {
		gt.Value(t, opts.RenderPath("report.pdf")).Equal("docs/report.pdf")
	})

	t.Run("empty filename keeps a readable placeholder", func(t *testing.T) {
		gt.Value(t, opts.RenderPath("")).Equal("docs/<filename>")
	})

	t.Run("template without placeholder is returned as-is", func(t *testing.T) {
		fixed := &model.StorageOptions{PathPreview: "docs/fixed.bin"}
		gt.Value(t, fixed.RenderPath("anything.pdf")).Equal("docs/fixed.bin")
	})
}
