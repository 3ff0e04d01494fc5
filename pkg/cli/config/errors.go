package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for catalog validation
var (
	ErrCatalogNotFound       = goerr.New("catalog file not found")
	ErrInvalidCatalog        = goerr.New("invalid catalog")
	ErrDuplicateActionID     = goerr.New("duplicate action ID")
	ErrMissingActionID       = goerr.New("action ID is required")
	ErrMissingLabel          = goerr.New("action label is required")
	ErrInvalidVariant        = goerr.New("invalid action variant")
	ErrInvalidMinRole        = goerr.New("invalid minimum role")
	ErrUnknownDuplicateCheck = goerr.New("unknown duplicate check")
	ErrEmptySelectOptions    = goerr.New("select options must not be empty")
	ErrInvalidStorage        = goerr.New("storage options require bucket and path_preview")
)

// Context keys for error values
const (
	CatalogPathKey = "catalog_path"
	ActionIDKey    = "action_id"
	FieldNameKey   = "field_name"
)
