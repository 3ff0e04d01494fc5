package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
)

// Auth holds CLI flags for session authentication
type Auth struct {
	secret      string
	noAuthUID   string
	noAuthYacht string
	noAuthRole  string
}

// Flags returns CLI flags for authentication configuration
func (a *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "HMAC secret for session JWTs (at least 16 bytes)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("QUARTERMASTER_AUTH_SECRET"),
			Destination: &a.secret,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the given user ID (development only). Example: --no-auth=crew-01",
			Category:    "Authentication",
			Sources:     cli.EnvVars("QUARTERMASTER_NO_AUTH"),
			Destination: &a.noAuthUID,
		},
		&cli.StringFlag{
			Name:        "no-auth-yacht",
			Usage:       "Yacht ID for the no-auth identity",
			Category:    "Authentication",
			Value:       "dev-yacht",
			Sources:     cli.EnvVars("QUARTERMASTER_NO_AUTH_YACHT"),
			Destination: &a.noAuthYacht,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Usage:       "Role for the no-auth identity",
			Category:    "Authentication",
			Value:       "captain",
			Sources:     cli.EnvVars("QUARTERMASTER_NO_AUTH_ROLE"),
			Destination: &a.noAuthRole,
		},
	}
}

// IsNoAuthMode reports whether the no-auth development identity is active
func (a *Auth) IsNoAuthMode() bool {
	return a.noAuthUID != ""
}

// NoAuthUID returns the configured no-auth user ID
func (a *Auth) NoAuthUID() string {
	return a.noAuthUID
}

// Configure builds the authenticator from the flags
func (a *Auth) Configure() (usecase.Authenticator, error) {
	if a.noAuthUID != "" {
		role := types.ParseRole(a.noAuthRole)
		if role == types.RoleUnknown {
			return nil, goerr.New("no-auth-role must be a recognized role",
				goerr.V("role", a.noAuthRole))
		}
		return usecase.NewNoAuthnUseCase(a.noAuthUID, a.noAuthYacht, role), nil
	}

	if a.secret == "" {
		return nil, goerr.New("auth-secret is required unless --no-auth is set")
	}
	return usecase.NewAuthUseCase([]byte(a.secret))
}
