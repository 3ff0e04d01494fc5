package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/usecase"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewAuthUseCase(t *testing.T) {
	t.Run("accepts a sufficient secret", func(t *testing.T) {
		uc, err := usecase.NewAuthUseCase(testSecret)
		gt.NoError(t, err).Required()
		gt.Bool(t, uc.IsNoAuthn()).False()
	})

	t.Run("rejects a short secret", func(t *testing.T) {
		_, err := usecase.NewAuthUseCase([]byte("too-short"))
		gt.Error(t, err)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	uc, err := usecase.NewAuthUseCase(testSecret)
	gt.NoError(t, err).Required()

	raw, err := uc.IssueToken("chief-eng", types.RoleHODEngineering, "yacht-aurora", "bridge-tablet")
	gt.NoError(t, err).Required()
	gt.String(t, raw).NotEqual("")

	tok, err := uc.ValidateToken(ctx, raw)
	gt.NoError(t, err).Required()

	gt.Value(t, tok.Sub).Equal("chief-eng")
	gt.Value(t, tok.Role).Equal(types.RoleHODEngineering)
	gt.Value(t, tok.YachtID).Equal("yacht-aurora")
	gt.Value(t, tok.DeviceID).Equal("bridge-tablet")
	gt.Bool(t, tok.ExpiresAt.After(time.Now())).True()
}

func TestTokenValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		issuer, err := usecase.NewAuthUseCase([]byte("another-secret-of-32-bytes-long!"))
		gt.NoError(t, err).Required()
		raw, err := issuer.IssueToken("u1", types.RoleCrew, "y1", "")
		gt.NoError(t, err).Required()

		verifier, err := usecase.NewAuthUseCase(testSecret)
		gt.NoError(t, err).Required()
		_, err = verifier.ValidateToken(ctx, raw)
		gt.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		uc, err := usecase.NewAuthUseCase(testSecret)
		gt.NoError(t, err).Required()
		_, err = uc.ValidateToken(ctx, "not-a-jwt")
		gt.Error(t, err)
	})

	t.Run("rejects an expired token beyond the skew", func(t *testing.T) {
		past := time.Now().Add(-48 * time.Hour)
		issuer, err := usecase.NewAuthUseCase(testSecret,
			usecase.WithSessionTTL(time.Hour),
			usecase.WithAuthNow(func() time.Time { return past }))
		gt.NoError(t, err).Required()

		raw, err := issuer.IssueToken("u1", types.RoleCrew, "y1", "")
		gt.NoError(t, err).Required()

		verifier, err := usecase.NewAuthUseCase(testSecret)
		gt.NoError(t, err).Required()
		_, err = verifier.ValidateToken(ctx, raw)
		gt.Error(t, err)
	})

	t.Run("tampered role fails closed instead of erroring", func(t *testing.T) {
		// A role string the verifier does not recognize degrades to the
		// lowest privilege; protected actions then deny it.
		uc, err := usecase.NewAuthUseCase(testSecret)
		gt.NoError(t, err).Required()

		raw, err := uc.IssueToken("u1", types.Role("admiral"), "y1", "")
		gt.NoError(t, err).Required()

		tok, err := uc.ValidateToken(ctx, raw)
		gt.NoError(t, err).Required()
		gt.Value(t, tok.Role).Equal(types.RoleUnknown)
		gt.Number(t, tok.Role.Level()).Equal(0)
	})
}

func TestNoAuthnUseCase(t *testing.T) {
	uc := usecase.NewNoAuthnUseCase("dev-user", "dev-yacht", types.RoleCaptain)
	gt.Bool(t, uc.IsNoAuthn()).True()

	tok, err := uc.ValidateToken(context.Background(), "anything at all")
	gt.NoError(t, err).Required()
	gt.Value(t, tok.Sub).Equal("dev-user")
	gt.Value(t, tok.YachtID).Equal("dev-yacht")
	gt.Value(t, tok.Role).Equal(types.RoleCaptain)
}
