package model

import "github.com/seamark-lab/quartermaster/pkg/domain/types"

// Session is the authenticated session state shared by the dispatch client
// and the flow controllers. It is read-only from this subsystem's
// perspective; refresh is the concern of an external session manager.
// DeviceID is pseudo-stable: persisted for the session's lifetime and
// regenerated for a new session.
type Session struct {
	UserID   string
	Role     types.Role
	YachtID  string
	DeviceID string
	Token    string `masq:"secret"`
}
