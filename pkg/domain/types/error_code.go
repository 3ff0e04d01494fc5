package types

import "net/http"

// ErrorCode is the machine-readable classification carried by error results.
// Codes ending in _failed are domain validation failures surfaced with a
// human message; the remaining codes have protocol-level meaning.
type ErrorCode string

const (
	// ErrCodeSignatureRequired: a SIGNED action was submitted without a
	// valid signature. Distinct from an authorization failure; resubmission
	// with a signature should succeed.
	ErrCodeSignatureRequired ErrorCode = "SIGNATURE_REQUIRED"

	// ErrCodeInsufficientPermissions: role-based denial. Never resolved by
	// resubmission, only by a different acting role.
	ErrCodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"

	// ErrCodeDuplicateFound: a related entity already exists and
	// override_duplicate was not set. Not a failure of the request itself.
	ErrCodeDuplicateFound ErrorCode = "DUPLICATE_FOUND"

	ErrCodeValidationFailed    ErrorCode = "validation_failed"
	ErrCodeUnknownActionFailed ErrorCode = "unknown_action_failed"
	ErrCodeStockFailed         ErrorCode = "stock_failed"
	ErrCodeStorageFailed       ErrorCode = "storage_failed"
	ErrCodeInternalFailed      ErrorCode = "internal_failed"
)

// String returns the string representation of the error code
func (c ErrorCode) String() string {
	return string(c)
}

// HTTPStatus maps the error code to the HTTP status of the execute endpoint
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeSignatureRequired:
		return http.StatusBadRequest
	case ErrCodeInsufficientPermissions:
		return http.StatusForbidden
	case ErrCodeDuplicateFound:
		return http.StatusConflict
	case ErrCodeValidationFailed, ErrCodeUnknownActionFailed, ErrCodeStockFailed:
		return http.StatusBadRequest
	case ErrCodeStorageFailed, ErrCodeInternalFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Retryable reports whether resubmitting the identical request can succeed.
// Authorization denials and validation failures are terminal for the same
// input; transport-level failures (which carry no code) are retryable by
// definition and are not represented here.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrCodeInsufficientPermissions, ErrCodeValidationFailed, ErrCodeUnknownActionFailed:
		return false
	default:
		return true
	}
}
