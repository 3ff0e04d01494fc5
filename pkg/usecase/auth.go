package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// Authenticator resolves a raw bearer token into the acting identity
type Authenticator interface {
	ValidateToken(ctx context.Context, raw string) (*auth.Token, error)
	IsNoAuthn() bool
}

const defaultSessionTTL = 24 * time.Hour

// AuthUseCase issues and validates session JWTs (HS256, service-local
// secret). The token carries sub, role, yacht_id and device_id; role parsing
// fails closed so a tampered or future role string degrades to the lowest
// privilege instead of erroring.
type AuthUseCase struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithSessionTTL overrides the issued token lifetime
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.sessionTTL = ttl
	}
}

// WithAuthNow fixes the clock, for tests
func WithAuthNow(now func() time.Time) AuthOption {
	return func(uc *AuthUseCase) {
		uc.now = now
	}
}

// NewAuthUseCase creates the JWT session authority from a shared secret
func NewAuthUseCase(secret []byte, options ...AuthOption) (*AuthUseCase, error) {
	if len(secret) < 16 {
		return nil, goerr.New("auth secret must be at least 16 bytes")
	}

	uc := &AuthUseCase{
		secret:     secret,
		sessionTTL: defaultSessionTTL,
		now:        time.Now,
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc, nil
}

// IsNoAuthn returns false for the regular authenticator
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// IssueToken mints a session JWT for the given identity
func (uc *AuthUseCase) IssueToken(uid string, role types.Role, yachtID, deviceID string) (string, error) {
	now := uc.now()

	builder := jwt.NewBuilder().
		Subject(uid).
		IssuedAt(now).
		Expiration(now.Add(uc.sessionTTL)).
		Claim("role", role.String()).
		Claim("yacht_id", yachtID)
	if deviceID != "" {
		builder = builder.Claim("device_id", deviceID)
	}

	token, err := builder.Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build session token", goerr.V("uid", uid))
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign session token", goerr.V("uid", uid))
	}

	return string(signed), nil
}

// ValidateToken parses and verifies a session JWT
func (uc *AuthUseCase) ValidateToken(ctx context.Context, raw string) (*auth.Token, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(10*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse or verify session token")
	}

	if token.Subject() == "" {
		return nil, goerr.New("session token has no subject")
	}

	return &auth.Token{
		Sub:       token.Subject(),
		Role:      types.ParseRole(stringClaim(token, "role")),
		YachtID:   stringClaim(token, "yacht_id"),
		DeviceID:  stringClaim(token, "device_id"),
		ExpiresAt: token.Expiration(),
	}, nil
}

func stringClaim(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// NoAuthnUseCase is the development-mode authenticator: every request acts
// as a fixed local identity. Never for production.
type NoAuthnUseCase struct {
	uid     string
	yachtID string
	role    types.Role
}

// NewNoAuthnUseCase creates the no-auth development authenticator
func NewNoAuthnUseCase(uid, yachtID string, role types.Role) *NoAuthnUseCase {
	return &NoAuthnUseCase{uid: uid, yachtID: yachtID, role: role}
}

// IsNoAuthn returns true for the development authenticator
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

// ValidateToken ignores the raw token and returns the fixed identity
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, raw string) (*auth.Token, error) {
	return auth.NewAnonymousToken(uc.uid, uc.yachtID, uc.role), nil
}
