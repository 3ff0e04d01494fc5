package types

// Role represents a crew member's role aboard. Roles form a coarse privilege
// order used by the action policy: crew < head-of-department < captain and
// manager.
type Role string

const (
	RoleCrew           Role = "crew"
	RoleHODEngineering Role = "hod_engineering"
	RoleHODInterior    Role = "hod_interior"
	RoleHODDeck        Role = "hod_deck"
	RoleCaptain        Role = "captain"
	RoleManager        Role = "manager"

	// RoleUnknown is the fail-closed default for unrecognized role strings.
	// It carries less privilege than any recognized role.
	RoleUnknown Role = ""
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleCrew,
		RoleHODEngineering,
		RoleHODInterior,
		RoleHODDeck,
		RoleCaptain,
		RoleManager,
	}
}

// IsValid checks if the role is a recognized role
func (r Role) IsValid() bool {
	switch r {
	case RoleCrew,
		RoleHODEngineering,
		RoleHODInterior,
		RoleHODDeck,
		RoleCaptain,
		RoleManager:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Level returns the privilege level of the role. Unrecognized roles get the
// lowest level so that authorization fails closed.
func (r Role) Level() int {
	switch r {
	case RoleManager, RoleCaptain:
		return 3
	case RoleHODEngineering, RoleHODInterior, RoleHODDeck:
		return 2
	case RoleCrew:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether the role carries at least the privilege of other
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// IsHOD reports whether the role is a head-of-department variant
func (r Role) IsHOD() bool {
	switch r {
	case RoleHODEngineering, RoleHODInterior, RoleHODDeck:
		return true
	default:
		return false
	}
}

// ParseRole parses a string into a Role. Unrecognized strings map to
// RoleUnknown rather than an error: the caller treats the result as the
// lowest privilege.
func ParseRole(s string) Role {
	r := Role(s)
	if !r.IsValid() {
		return RoleUnknown
	}
	return r
}
