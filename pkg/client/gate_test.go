package client_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/client"
	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func TestGateAllowed(t *testing.T) {
	gate := client.NewGate()

	t.Run("unlisted actions are open to any recognized role", func(t *testing.T) {
		gt.Bool(t, gate.Allowed(types.RoleCrew, "add_crew_note")).True()
		gt.Bool(t, gate.Allowed(types.RoleCaptain, "add_crew_note")).True()
	})

	t.Run("archive requires captain or manager", func(t *testing.T) {
		gt.Bool(t, gate.Allowed(types.RoleCaptain, "archive_work_order")).True()
		gt.Bool(t, gate.Allowed(types.RoleManager, "archive_work_order")).True()
		gt.Bool(t, gate.Allowed(types.RoleHODEngineering, "archive_work_order")).False()
		gt.Bool(t, gate.Allowed(types.RoleCrew, "archive_work_order")).False()
	})

	t.Run("compliance dismissal requires hod or above", func(t *testing.T) {
		gt.Bool(t, gate.Allowed(types.RoleHODDeck, "dismiss_compliance_warning")).True()
		gt.Bool(t, gate.Allowed(types.RoleCaptain, "dismiss_compliance_warning")).True()
		gt.Bool(t, gate.Allowed(types.RoleCrew, "dismiss_compliance_warning")).False()
	})

	t.Run("unknown role fails closed everywhere", func(t *testing.T) {
		gt.Bool(t, gate.Allowed(types.RoleUnknown, "add_crew_note")).False()
		gt.Bool(t, gate.Allowed(types.RoleUnknown, "archive_work_order")).False()
	})
}

func TestGateFilter(t *testing.T) {
	gate := client.NewGate()
	suggestions := []*model.ActionSuggestion{
		{ActionID: "create_work_order"},
		{ActionID: "archive_work_order"},
		{ActionID: "add_crew_note"},
		{ActionID: "dismiss_compliance_warning"},
	}

	t.Run("crew view hides the protected actions", func(t *testing.T) {
		visible := gate.Filter(types.RoleCrew, suggestions)
		gt.Array(t, visible).Length(2)
		gt.Value(t, visible[0].ActionID).Equal(types.ActionID("create_work_order"))
		gt.Value(t, visible[1].ActionID).Equal(types.ActionID("add_crew_note"))
	})

	t.Run("captain view preserves catalog order", func(t *testing.T) {
		visible := gate.Filter(types.RoleCaptain, suggestions)
		gt.Array(t, visible).Length(4)
		gt.Value(t, visible[1].ActionID).Equal(types.ActionID("archive_work_order"))
	})
}

func TestGateWithRules(t *testing.T) {
	gate := client.NewGateWithRules(map[types.ActionID]types.Role{
		"adjust_inventory": types.RoleHODInterior,
	})

	gt.Bool(t, gate.Allowed(types.RoleCrew, "adjust_inventory")).False()
	gt.Bool(t, gate.Allowed(types.RoleHODDeck, "adjust_inventory")).True()

	// The defaults are replaced, not merged
	gt.Bool(t, gate.Allowed(types.RoleCrew, "archive_work_order")).True()
}
