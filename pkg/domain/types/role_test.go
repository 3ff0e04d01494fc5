package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Role
	}{
		{name: "crew", input: "crew", want: types.RoleCrew},
		{name: "captain", input: "captain", want: types.RoleCaptain},
		{name: "manager", input: "manager", want: types.RoleManager},
		{name: "hod engineering", input: "hod_engineering", want: types.RoleHODEngineering},
		{name: "unrecognized string falls to unknown", input: "admiral", want: types.RoleUnknown},
		{name: "empty string falls to unknown", input: "", want: types.RoleUnknown},
		{name: "case sensitive", input: "Captain", want: types.RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.ParseRole(tt.input)).Equal(tt.want)
		})
	}
}

func TestRoleLevel(t *testing.T) {
	t.Run("captain and manager share the top level", func(t *testing.T) {
		gt.Number(t, types.RoleCaptain.Level()).Equal(types.RoleManager.Level())
	})

	t.Run("ordering crew < hod < captain", func(t *testing.T) {
		gt.Bool(t, types.RoleCrew.Level() < types.RoleHODDeck.Level()).True()
		gt.Bool(t, types.RoleHODDeck.Level() < types.RoleCaptain.Level()).True()
	})

	t.Run("unknown role has the lowest level", func(t *testing.T) {
		gt.Number(t, types.RoleUnknown.Level()).Equal(0)
		gt.Bool(t, types.RoleUnknown.Level() < types.RoleCrew.Level()).True()
	})
}

func TestRoleAtLeast(t *testing.T) {
	t.Run("manager satisfies captain requirement", func(t *testing.T) {
		gt.Bool(t, types.RoleManager.AtLeast(types.RoleCaptain)).True()
	})

	t.Run("hod does not satisfy captain requirement", func(t *testing.T) {
		gt.Bool(t, types.RoleHODInterior.AtLeast(types.RoleCaptain)).False()
	})

	t.Run("hod variants are interchangeable by level", func(t *testing.T) {
		gt.Bool(t, types.RoleHODDeck.AtLeast(types.RoleHODEngineering)).True()
	})

	t.Run("unknown role fails every requirement above none", func(t *testing.T) {
		gt.Bool(t, types.RoleUnknown.AtLeast(types.RoleCrew)).False()
	})
}

func TestRoleIsHOD(t *testing.T) {
	gt.Bool(t, types.RoleHODEngineering.IsHOD()).True()
	gt.Bool(t, types.RoleHODInterior.IsHOD()).True()
	gt.Bool(t, types.RoleHODDeck.IsHOD()).True()
	gt.Bool(t, types.RoleCaptain.IsHOD()).False()
	gt.Bool(t, types.RoleCrew.IsHOD()).False()
}
