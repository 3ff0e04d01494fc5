package types

import "fmt"

// ActionID is the stable identifier of an invocable operation, understood by
// the backend action router. The namespace is flat; the set of known IDs is
// declared by the action catalog, and lookups fall back to an explicit
// unknown-action error rather than reflection.
type ActionID string

// String returns the string representation of the action ID
func (id ActionID) String() string {
	return string(id)
}

// ActionVariant represents the execution requirements of an action
type ActionVariant string

const (
	// ActionVariantStandard executes with context and payload only
	ActionVariantStandard ActionVariant = "STANDARD"
	// ActionVariantSigned requires a signature proving authorized intent
	// before execution
	ActionVariantSigned ActionVariant = "SIGNED"
)

// AllActionVariants returns all valid action variants
func AllActionVariants() []ActionVariant {
	return []ActionVariant{
		ActionVariantStandard,
		ActionVariantSigned,
	}
}

// IsValid checks if the action variant is valid
func (v ActionVariant) IsValid() bool {
	switch v {
	case ActionVariantStandard, ActionVariantSigned:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action variant
func (v ActionVariant) String() string {
	return string(v)
}

// ParseActionVariant parses a string into an ActionVariant
func ParseActionVariant(s string) (ActionVariant, error) {
	v := ActionVariant(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid action variant: %s", s)
	}
	return v, nil
}
