package client_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/client"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func TestInferField(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		wantKind    types.FieldKind
		wantLabel   string
		wantOptions []string
	}{
		{
			name:      "expiry date",
			field:     "expiry_date",
			wantKind:  types.FieldKindDate,
			wantLabel: "Expiry Date",
		},
		{
			name:      "issue date",
			field:     "issue_date",
			wantKind:  types.FieldKindDate,
			wantLabel: "Issue Date",
		},
		{
			name:      "dismiss reason",
			field:     "dismiss_reason",
			wantKind:  types.FieldKindTextarea,
			wantLabel: "Dismiss Reason",
		},
		{
			name:      "completion note",
			field:     "completion_note",
			wantKind:  types.FieldKindTextarea,
			wantLabel: "Completion Note",
		},
		{
			name:      "description",
			field:     "description",
			wantKind:  types.FieldKindTextarea,
			wantLabel: "Description",
		},
		{
			name:        "source type select",
			field:       "source_type",
			wantKind:    types.FieldKindSelect,
			wantLabel:   "Source Type",
			wantOptions: []string{"purchase", "transfer", "donation", "found_aboard"},
		},
		{
			name:        "certificate type select",
			field:       "certificate_type",
			wantKind:    types.FieldKindSelect,
			wantLabel:   "Certificate Type",
			wantOptions: []string{"class", "flag", "safety", "radio", "insurance"},
		},
		{
			name:        "priority select",
			field:       "priority",
			wantKind:    types.FieldKindSelect,
			wantLabel:   "Priority",
			wantOptions: []string{"low", "medium", "high", "critical"},
		},
		{
			name:      "type-ish field without registered options degrades to text",
			field:     "engine_type",
			wantKind:  types.FieldKindText,
			wantLabel: "Engine Type",
		},
		{
			name:      "quantity change",
			field:     "quantity_change",
			wantKind:  types.FieldKindNumber,
			wantLabel: "Quantity Change",
		},
		{
			name:      "unit price",
			field:     "unit_price",
			wantKind:  types.FieldKindNumber,
			wantLabel: "Unit Price",
		},
		{
			name:      "unknown name never fails, renders as text",
			field:     "frobnicator",
			wantKind:  types.FieldKindText,
			wantLabel: "Frobnicator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := client.InferField(tt.field)
			gt.Value(t, spec.Name).Equal(tt.field)
			gt.Value(t, spec.Kind).Equal(tt.wantKind)
			gt.Value(t, spec.Label).Equal(tt.wantLabel)
			if tt.wantOptions != nil {
				gt.Array(t, spec.Options).Equal(tt.wantOptions)
			} else {
				gt.Array(t, spec.Options).Length(0)
			}
		})
	}
}

func TestInferFieldWithOptions(t *testing.T) {
	t.Run("catalog options take precedence over built-ins", func(t *testing.T) {
		spec := client.InferFieldWithOptions("priority", map[string][]string{
			"priority": {"routine", "urgent"},
		})
		gt.Value(t, spec.Kind).Equal(types.FieldKindSelect)
		gt.Array(t, spec.Options).Equal([]string{"routine", "urgent"})
	})

	t.Run("catalog options for unrelated fields are ignored", func(t *testing.T) {
		spec := client.InferFieldWithOptions("quantity_change", map[string][]string{
			"priority": {"routine", "urgent"},
		})
		gt.Value(t, spec.Kind).Equal(types.FieldKindNumber)
		gt.Array(t, spec.Options).Length(0)
	})
}
