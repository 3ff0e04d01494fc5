package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/cli/config"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

func validAction() config.CatalogAction {
	return config.CatalogAction{
		ID:             "create_work_order",
		Label:          "Create work order",
		Variant:        "STANDARD",
		RequiredFields: []string{"yacht_id", "title"},
	}
}

func TestDefaultCatalogCompiles(t *testing.T) {
	catalog := config.DefaultCatalog()
	gt.NoError(t, catalog.Validate()).Required()

	registry, err := catalog.Compile()
	gt.NoError(t, err).Required()

	for _, id := range []types.ActionID{
		"create_work_order",
		"complete_work_order",
		"archive_work_order",
		"add_crew_note",
		"adjust_inventory",
		"dismiss_compliance_warning",
		"upload_document",
	} {
		_, ok := registry.Lookup(id)
		gt.Bool(t, ok).True()
	}
}

func TestCatalogValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.CatalogAction)
		wantErr error
	}{
		{
			name:    "missing id",
			mutate:  func(a *config.CatalogAction) { a.ID = "  " },
			wantErr: config.ErrMissingActionID,
		},
		{
			name:    "missing label",
			mutate:  func(a *config.CatalogAction) { a.Label = "" },
			wantErr: config.ErrMissingLabel,
		},
		{
			name:    "unknown variant",
			mutate:  func(a *config.CatalogAction) { a.Variant = "ADVISORY" },
			wantErr: config.ErrInvalidVariant,
		},
		{
			name:    "unknown min role",
			mutate:  func(a *config.CatalogAction) { a.MinRole = "admiral" },
			wantErr: config.ErrInvalidMinRole,
		},
		{
			name:    "unknown duplicate check",
			mutate:  func(a *config.CatalogAction) { a.DuplicateCheck = "invoice_for_fault" },
			wantErr: config.ErrUnknownDuplicateCheck,
		},
		{
			name: "select field without options",
			mutate: func(a *config.CatalogAction) {
				a.SelectOptions = map[string][]string{"priority": {}}
			},
			wantErr: config.ErrEmptySelectOptions,
		},
		{
			name: "storage without a bucket",
			mutate: func(a *config.CatalogAction) {
				a.Storage = &config.CatalogStorage{PathPreview: "docs/{filename}"}
			},
			wantErr: config.ErrInvalidStorage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action := validAction()
			tc.mutate(&action)

			catalog := &config.Catalog{Actions: []config.CatalogAction{action}}
			gt.Error(t, catalog.Validate()).Is(tc.wantErr)
		})
	}

	t.Run("empty catalog", func(t *testing.T) {
		catalog := &config.Catalog{}
		gt.Error(t, catalog.Validate()).Is(config.ErrInvalidCatalog)
	})

	t.Run("duplicate action id", func(t *testing.T) {
		catalog := &config.Catalog{Actions: []config.CatalogAction{validAction(), validAction()}}
		gt.Error(t, catalog.Validate()).Is(config.ErrDuplicateActionID)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("loads a valid TOML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`
[[action]]
id = "create_work_order"
label = "Create work order"
variant = "STANDARD"
required_fields = ["yacht_id", "title"]
duplicate_check = "work_order_for_fault"

[[action]]
id = "complete_work_order"
label = "Complete work order"
variant = "SIGNED"
required_fields = ["yacht_id", "outcome", "signature"]

[action.select_options]
outcome = ["completed", "deferred", "cancelled"]
`), 0600)).Required()

		catalog, err := config.LoadCatalog(path)
		gt.NoError(t, err).Required()
		gt.Array(t, catalog.Actions).Length(2)
		gt.Value(t, catalog.Actions[1].SelectOptions["outcome"]).
			Equal([]string{"completed", "deferred", "cancelled"})

		registry, err := catalog.Compile()
		gt.NoError(t, err).Required()
		spec, ok := registry.Lookup("complete_work_order")
		gt.Bool(t, ok).True()
		gt.Value(t, spec.Variant).Equal(types.ActionVariantSigned)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadCatalog(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err).Is(config.ErrCatalogNotFound)
	})

	t.Run("invalid declarations fail at load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`
[[action]]
id = "create_work_order"
label = "Create work order"
variant = "MAYBE"
`), 0600)).Required()

		_, err := config.LoadCatalog(path)
		gt.Error(t, err).Is(config.ErrInvalidVariant)
	})
}

func TestCatalogConfigConfigure(t *testing.T) {
	t.Run("built-in catalog when no path is set", func(t *testing.T) {
		var cfg config.CatalogConfig
		catalog, registry, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, catalog).NotNil()
		gt.Value(t, registry).NotNil()
		gt.Array(t, registry.SuggestionsFor(types.RoleCaptain)).Length(7)
	})
}
