package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/seamark-lab/quartermaster/pkg/cli/config"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.CatalogConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the action catalog",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			ok := color.New(color.FgGreen, color.Bold).FprintfFunc()
			fail := color.New(color.FgRed, color.Bold).FprintfFunc()

			catalog, registry, err := catalogCfg.Configure()
			if err != nil {
				fail(os.Stderr, "FAIL ")
				fmt.Fprintln(os.Stderr, err.Error())
				return goerr.Wrap(err, "catalog validation failed")
			}

			// Every declared action must have a server-side handler
			handled := make(map[types.ActionID]bool)
			for _, id := range usecase.HandledActionIDs() {
				handled[id] = true
			}

			var unhandled []string
			for _, spec := range registry.Actions() {
				if !handled[spec.ID] {
					unhandled = append(unhandled, spec.ID.String())
				}
			}
			if len(unhandled) > 0 {
				fail(os.Stderr, "FAIL ")
				fmt.Fprintf(os.Stderr, "catalog declares actions without a handler: %v\n", unhandled)
				return goerr.New("catalog declares unhandled actions",
					goerr.V("actions", unhandled))
			}

			for _, spec := range registry.Actions() {
				ok(os.Stdout, "OK   ")
				fmt.Fprintf(os.Stdout, "%-28s %-8s min_role=%s fields=%d\n",
					spec.ID, spec.Variant, roleOrAny(spec.MinRole), len(spec.RequiredFields))
			}

			source := catalogCfg.Path()
			if source == "" {
				source = "(built-in)"
			}
			ok(os.Stdout, "OK   ")
			fmt.Fprintf(os.Stdout, "catalog valid: %d action(s) from %s\n",
				len(catalog.Actions), source)
			return nil
		},
	}
}

func roleOrAny(role types.Role) string {
	if role == types.RoleUnknown {
		return "any"
	}
	return role.String()
}
