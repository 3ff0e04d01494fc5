package model

import "github.com/seamark-lab/quartermaster/pkg/domain/types"

// ActionNotification is the human-facing record of one executed action,
// posted best-effort to the configured chat channel
type ActionNotification struct {
	ActionID  types.ActionID
	Label     string
	YachtID   string
	ActorID   string
	ActorRole types.Role
	Status    types.ExecStatus
	Message   string
	ErrorCode types.ErrorCode
}
