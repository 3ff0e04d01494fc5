package auth

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
)

// Token is the validated identity of the acting user, extracted from the
// session JWT and carried through the request context.
type Token struct {
	Sub       string
	Role      types.Role
	YachtID   string
	DeviceID  string
	ExpiresAt time.Time
}

// ErrNoToken is returned when the context carries no authenticated token
var ErrNoToken = goerr.New("no authentication token in context")

type ctxTokenKey struct{}

// ContextWithToken embeds the token into the context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the token from the context
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	return token, nil
}

// NewAnonymousToken returns the token used in no-auth development mode
func NewAnonymousToken(uid, yachtID string, role types.Role) *Token {
	return &Token{
		Sub:       uid,
		Role:      role,
		YachtID:   yachtID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}
