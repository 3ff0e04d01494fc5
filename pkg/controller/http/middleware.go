package http

import (
	"net/http"
	"strings"

	"github.com/seamark-lab/quartermaster/pkg/domain/model/auth"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
)

// authMiddleware resolves the bearer token into the acting identity and
// embeds it in the request context
func authMiddleware(authUC usecase.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// No-auth development mode runs every request as a fixed identity
			if authUC == nil || authUC.IsNoAuthn() {
				token := anonymousToken(authUC, r)
				ctx := auth.ContextWithToken(r.Context(), token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			raw := bearerToken(r)
			if raw == "" {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			token, err := authUC.ValidateToken(r.Context(), raw)
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func anonymousToken(authUC usecase.Authenticator, r *http.Request) *auth.Token {
	if authUC != nil {
		if token, err := authUC.ValidateToken(r.Context(), ""); err == nil {
			return token
		}
	}
	return auth.NewAnonymousToken("anonymous", "dev-yacht", types.RoleCaptain)
}
