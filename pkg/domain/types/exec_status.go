package types

// ExecStatus represents the normalized outcome of an action execution
type ExecStatus string

const (
	ExecStatusSuccess ExecStatus = "success"
	ExecStatusError   ExecStatus = "error"
)

// IsValid checks if the exec status is valid
func (s ExecStatus) IsValid() bool {
	switch s {
	case ExecStatusSuccess, ExecStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the exec status
func (s ExecStatus) String() string {
	return string(s)
}
