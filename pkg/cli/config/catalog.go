package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// Catalog is the TOML action catalog: the closed set of operations the
// server executes and the UI renders
type Catalog struct {
	Actions []CatalogAction `toml:"action"`
}

// CatalogAction declares one action
type CatalogAction struct {
	ID             string              `toml:"id"`
	Label          string              `toml:"label"`
	Variant        string              `toml:"variant"`
	RequiredFields []string            `toml:"required_fields"`
	MinRole        string              `toml:"min_role"`
	DuplicateCheck string              `toml:"duplicate_check"`
	SelectOptions  map[string][]string `toml:"select_options"`
	Storage        *CatalogStorage     `toml:"storage"`
}

// CatalogStorage declares where an upload action persists its file
type CatalogStorage struct {
	Bucket               string `toml:"bucket"`
	PathPreview          string `toml:"path_preview"`
	ConfirmationRequired bool   `toml:"confirmation_required"`
}

// Validate checks one action declaration
func (a *CatalogAction) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrMissingActionID
	}
	if strings.TrimSpace(a.Label) == "" {
		return goerr.Wrap(ErrMissingLabel, "action needs a label", goerr.V(ActionIDKey, a.ID))
	}
	if _, err := types.ParseActionVariant(a.Variant); err != nil {
		return goerr.Wrap(ErrInvalidVariant, "variant must be STANDARD or SIGNED",
			goerr.V(ActionIDKey, a.ID), goerr.V("variant", a.Variant))
	}
	if a.MinRole != "" && !types.Role(a.MinRole).IsValid() {
		return goerr.Wrap(ErrInvalidMinRole, "min_role must be a recognized role",
			goerr.V(ActionIDKey, a.ID), goerr.V("min_role", a.MinRole))
	}
	if a.DuplicateCheck != "" && a.DuplicateCheck != model.DuplicateCheckWorkOrderForFault {
		return goerr.Wrap(ErrUnknownDuplicateCheck, "duplicate_check names no known lookup",
			goerr.V(ActionIDKey, a.ID), goerr.V("duplicate_check", a.DuplicateCheck))
	}
	for name, options := range a.SelectOptions {
		if len(options) == 0 {
			return goerr.Wrap(ErrEmptySelectOptions, "select field declares no options",
				goerr.V(ActionIDKey, a.ID), goerr.V(FieldNameKey, name))
		}
	}
	if a.Storage != nil {
		if a.Storage.Bucket == "" || a.Storage.PathPreview == "" {
			return goerr.Wrap(ErrInvalidStorage, "storage section incomplete", goerr.V(ActionIDKey, a.ID))
		}
	}
	return nil
}

// Validate checks the whole catalog
func (c *Catalog) Validate() error {
	if len(c.Actions) == 0 {
		return goerr.Wrap(ErrInvalidCatalog, "catalog declares no actions")
	}

	seen := make(map[string]bool, len(c.Actions))
	for i := range c.Actions {
		action := &c.Actions[i]
		if err := action.Validate(); err != nil {
			return goerr.Wrap(err, "invalid action declaration")
		}
		if seen[action.ID] {
			return goerr.Wrap(ErrDuplicateActionID, "action declared twice", goerr.V(ActionIDKey, action.ID))
		}
		seen[action.ID] = true
	}
	return nil
}

// Compile validates the catalog and builds the action registry
func (c *Catalog) Compile() (*model.ActionRegistry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	specs := make([]*model.ActionSpec, 0, len(c.Actions))
	for i := range c.Actions {
		action := &c.Actions[i]

		variant, err := types.ParseActionVariant(action.Variant)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid action variant", goerr.V(ActionIDKey, action.ID))
		}

		var storage *model.StorageOptions
		if action.Storage != nil {
			storage = &model.StorageOptions{
				Bucket:               action.Storage.Bucket,
				PathPreview:          action.Storage.PathPreview,
				ConfirmationRequired: action.Storage.ConfirmationRequired,
			}
		}

		specs = append(specs, &model.ActionSpec{
			ID:             types.ActionID(action.ID),
			Label:          action.Label,
			Variant:        variant,
			RequiredFields: action.RequiredFields,
			MinRole:        types.Role(action.MinRole),
			SelectOptions:  action.SelectOptions,
			StorageOptions: storage,
			DuplicateCheck: action.DuplicateCheck,
		})
	}

	return model.NewActionRegistry(specs...)
}

// LoadCatalog loads and validates an action catalog from a TOML file
func LoadCatalog(path string) (*Catalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrCatalogNotFound, "no catalog at path", goerr.V(CatalogPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(CatalogPathKey, path))
	}

	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V(CatalogPathKey, path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V(CatalogPathKey, path))
	}

	return &catalog, nil
}

// DefaultCatalog returns the built-in catalog used when no file is given.
// It covers the standard yacht operations action set.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Actions: []CatalogAction{
			{
				ID:             "create_work_order",
				Label:          "Create work order",
				Variant:        types.ActionVariantStandard.String(),
				RequiredFields: []string{"yacht_id", "title", "description", "priority"},
				DuplicateCheck: model.DuplicateCheckWorkOrderForFault,
				SelectOptions: map[string][]string{
					"priority": {"low", "medium", "high", "critical"},
				},
			},
			{
				ID:             "complete_work_order",
				Label:          "Complete work order",
				Variant:        types.ActionVariantSigned.String(),
				RequiredFields: []string{"yacht_id", "outcome", "completion_note", "signature"},
				SelectOptions: map[string][]string{
					"outcome": {"completed", "deferred", "cancelled"},
				},
			},
			{
				ID:             "archive_work_order",
				Label:          "Archive work order",
				Variant:        types.ActionVariantStandard.String(),
				RequiredFields: []string{"yacht_id"},
				MinRole:        types.RoleCaptain.String(),
			},
			{
				ID:             "add_crew_note",
				Label:          "Add crew note",
				Variant:        types.ActionVariantStandard.String(),
				RequiredFields: []string{"yacht_id", "note"},
			},
			{
				ID:             "adjust_inventory",
				Label:          "Adjust inventory",
				Variant:        types.ActionVariantStandard.String(),
				RequiredFields: []string{"yacht_id", "quantity_change", "reason"},
			},
			{
				ID:             "dismiss_compliance_warning",
				Label:          "Dismiss compliance warning",
				Variant:        types.ActionVariantSigned.String(),
				RequiredFields: []string{"yacht_id", "dismiss_reason", "signature"},
				MinRole:        types.RoleHODDeck.String(),
			},
			{
				ID:             "upload_document",
				Label:          "Upload document",
				Variant:        types.ActionVariantStandard.String(),
				RequiredFields: []string{"yacht_id", "title", "filename"},
				Storage: &CatalogStorage{
					Bucket:               "quartermaster-documents",
					PathPreview:          "docs/{filename}",
					ConfirmationRequired: true,
				},
			},
		},
	}
}

// CatalogConfig holds the CLI flag for the catalog path and loads it
type CatalogConfig struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *CatalogConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the TOML action catalog (built-in catalog when omitted)",
			Sources:     cli.EnvVars("QUARTERMASTER_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Path returns the configured catalog path, empty for the built-in catalog
func (c *CatalogConfig) Path() string {
	return c.path
}

// Configure loads the catalog (file or built-in) and compiles the registry
func (c *CatalogConfig) Configure() (*Catalog, *model.ActionRegistry, error) {
	catalog := DefaultCatalog()
	if c.path != "" {
		loaded, err := LoadCatalog(c.path)
		if err != nil {
			return nil, nil, err
		}
		catalog = loaded
	}

	registry, err := catalog.Compile()
	if err != nil {
		return nil, nil, err
	}
	return catalog, registry, nil
}
