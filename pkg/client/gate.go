package client

import (
	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// Gate is the client-side role visibility filter. It is advisory only: it
// controls what the UI shows and enables, while the server rejects
// unauthorized dispatches independently (defense in depth). Unknown roles
// and unlisted actions fail closed.
type Gate struct {
	minRoles map[types.ActionID]types.Role
}

// defaultGateRules mirrors the server's catalog policy for the protected
// action families. Actions not listed here are open to any recognized role.
func defaultGateRules() map[types.ActionID]types.Role {
	return map[types.ActionID]types.Role{
		"dismiss_compliance_warning": types.RoleHODEngineering,
		"archive_work_order":         types.RoleCaptain,
	}
}

// NewGate builds a gate with the default rules
func NewGate() *Gate {
	return &Gate{minRoles: defaultGateRules()}
}

// NewGateWithRules builds a gate from explicit per-action minimum roles
func NewGateWithRules(minRoles map[types.ActionID]types.Role) *Gate {
	rules := make(map[types.ActionID]types.Role, len(minRoles))
	for id, role := range minRoles {
		rules[id] = role
	}
	return &Gate{minRoles: rules}
}

// Allowed reports whether the role may see and invoke the action.
// Unrecognized roles carry the lowest privilege, so any action with a
// minimum role is hidden from them.
func (g *Gate) Allowed(role types.Role, actionID types.ActionID) bool {
	minRole, protected := g.minRoles[actionID]
	if !protected {
		return role.IsValid()
	}
	return role.AtLeast(minRole)
}

// Filter returns the suggestions the role is allowed to see, preserving order
func (g *Gate) Filter(role types.Role, suggestions []*model.ActionSuggestion) []*model.ActionSuggestion {
	visible := make([]*model.ActionSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if g.Allowed(role, s.ActionID) {
			visible = append(visible, s)
		}
	}
	return visible
}
