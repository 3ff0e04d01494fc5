package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// DuplicateCheckWorkOrderForFault names the lookup for an existing work
// order created from the fault referenced by the request context
const DuplicateCheckWorkOrderForFault = "work_order_for_fault"

// ActionSpec is the compiled declaration of one action from the catalog:
// what the UI renders, what the server enforces.
type ActionSpec struct {
	ID             types.ActionID
	Label          string
	Variant        types.ActionVariant
	RequiredFields []string
	MinRole        types.Role
	SelectOptions  map[string][]string
	StorageOptions *StorageOptions

	// DuplicateCheck names the related-entity lookup to run before creation
	// (e.g. "work_order_for_fault"). Empty means no duplicate detection.
	DuplicateCheck string
}

// Suggestion converts the spec into its wire representation
func (s *ActionSpec) Suggestion() *ActionSuggestion {
	fields := make([]string, len(s.RequiredFields))
	copy(fields, s.RequiredFields)

	var storage *StorageOptions
	if s.StorageOptions != nil {
		cp := *s.StorageOptions
		storage = &cp
	}

	return &ActionSuggestion{
		ActionID:       s.ID,
		Label:          s.Label,
		Variant:        s.Variant,
		RequiredFields: fields,
		StorageOptions: storage,
	}
}

// PermittedFor reports whether the role may invoke this action. Fail-closed:
// an unknown role has the lowest privilege and only passes when the action
// has no minimum role at all.
func (s *ActionSpec) PermittedFor(role types.Role) bool {
	if s.MinRole == types.RoleUnknown {
		return true
	}
	return role.AtLeast(s.MinRole)
}

// ActionRegistry is the closed lookup table of known actions. Dispatch
// resolves action IDs here; anything outside the table is an explicit
// unknown-action error, never a reflective fallback.
type ActionRegistry struct {
	actions map[types.ActionID]*ActionSpec
	order   []types.ActionID
}

// NewActionRegistry builds a registry from compiled specs, rejecting
// duplicate IDs
func NewActionRegistry(specs ...*ActionSpec) (*ActionRegistry, error) {
	r := &ActionRegistry{
		actions: make(map[types.ActionID]*ActionSpec, len(specs)),
	}

	for _, spec := range specs {
		if _, exists := r.actions[spec.ID]; exists {
			return nil, goerr.New("duplicate action ID in catalog", goerr.V("action_id", spec.ID))
		}
		r.actions[spec.ID] = spec
		r.order = append(r.order, spec.ID)
	}

	return r, nil
}

// Lookup resolves an action ID
func (r *ActionRegistry) Lookup(id types.ActionID) (*ActionSpec, bool) {
	spec, ok := r.actions[id]
	return spec, ok
}

// Actions returns all specs in catalog order
func (r *ActionRegistry) Actions() []*ActionSpec {
	specs := make([]*ActionSpec, 0, len(r.order))
	for _, id := range r.order {
		specs = append(specs, r.actions[id])
	}
	return specs
}

// SuggestionsFor returns the suggestions visible to the given role, in
// catalog order. This is the server-side half of the authorization gate;
// the client-side table is advisory only.
func (r *ActionRegistry) SuggestionsFor(role types.Role) []*ActionSuggestion {
	suggestions := make([]*ActionSuggestion, 0, len(r.order))
	for _, id := range r.order {
		spec := r.actions[id]
		if !spec.PermittedFor(role) {
			continue
		}
		suggestions = append(suggestions, spec.Suggestion())
	}
	return suggestions
}
