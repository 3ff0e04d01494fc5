package client

import (
	"strings"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// FieldSpec is the inferred rendering of one declared field: widget kind,
// display label, and select options when the kind is select.
type FieldSpec struct {
	Name    string
	Kind    types.FieldKind
	Label   string
	Options []string
}

// defaultSelectOptions is the closed enumeration backing select fields,
// keyed by exact field name. Fields not registered here fall through to
// free text rather than a broken select.
var defaultSelectOptions = map[string][]string{
	"priority":         {"low", "medium", "high", "critical"},
	"severity":         {"minor", "major", "critical"},
	"source_type":      {"purchase", "transfer", "donation", "found_aboard"},
	"certificate_type": {"class", "flag", "safety", "radio", "insurance"},
	"outcome":          {"completed", "deferred", "cancelled"},
}

// InferField maps a server-declared field name to a widget kind and a human
// label without any server-side UI schema. First match wins; unknown names
// never fail, they degrade to plain text so the form is always renderable.
func InferField(name string) FieldSpec {
	return InferFieldWithOptions(name, nil)
}

// InferFieldWithOptions is InferField with catalog-provided select options
// taking precedence over the built-in enumeration.
func InferFieldWithOptions(name string, selectOptions map[string][]string) FieldSpec {
	spec := FieldSpec{
		Name:  name,
		Label: fieldLabel(name),
	}

	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, "date", "expiry", "issue"):
		spec.Kind = types.FieldKindDate

	case containsAny(lower, "reason", "note", "description"):
		spec.Kind = types.FieldKindTextarea

	case containsAny(lower, "type", "priority"):
		if opts, ok := selectOptions[name]; ok && len(opts) > 0 {
			spec.Kind = types.FieldKindSelect
			spec.Options = opts
		} else if opts, ok := defaultSelectOptions[name]; ok {
			spec.Kind = types.FieldKindSelect
			spec.Options = opts
		} else {
			// Unregistered type-ish field: free text, not a broken select
			spec.Kind = types.FieldKindText
		}

	case containsAny(lower, "quantity", "price"):
		spec.Kind = types.FieldKindNumber

	default:
		spec.Kind = types.FieldKindText
	}

	return spec
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fieldLabel derives a display label: underscores to spaces, title case
func fieldLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
