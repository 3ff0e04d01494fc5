package types

// FieldKind represents the input widget type inferred for a declared field
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindNumber   FieldKind = "number"
	FieldKindDate     FieldKind = "date"
	FieldKindTextarea FieldKind = "textarea"
	FieldKindSelect   FieldKind = "select"
)

// AllFieldKinds returns all valid field kinds
func AllFieldKinds() []FieldKind {
	return []FieldKind{
		FieldKindText,
		FieldKindNumber,
		FieldKindDate,
		FieldKindTextarea,
		FieldKindSelect,
	}
}

// IsValid checks if the field kind is valid
func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindText,
		FieldKindNumber,
		FieldKindDate,
		FieldKindTextarea,
		FieldKindSelect:
		return true
	default:
		return false
	}
}

// String returns the string representation of the field kind
func (k FieldKind) String() string {
	return string(k)
}
