package middleware

import (
	"context"
	"errors"
	"net/http"

	"freecode/internal/common"
	"freecode/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const ClaimsCtxKey contextKey = "claims"

// TokenFromHeader returns the Authorization header verbatim. No "Bearer"
// prefix is stripped.
func TokenFromHeader(r *http.Request) string {
	return r.Header.Get("Authorization")
}

// Verifier decodes and verifies the token, leaving the outcome in the
// request context for Authenticator.
func Verifier(tokens *security.TokenService) func(http.Handler) http.Handler {
	return jwtauth.Verify(tokens.JWTAuth(), TokenFromHeader)
}

// Authenticator rejects requests without a token (401) or with one that does
// not verify (400). Verified claims are attached to the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, rawClaims, err := jwtauth.FromContext(r.Context())
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			common.RespondWithError(w, common.ErrUnauthorized)
			return
		}
		if err != nil || token == nil {
			common.RespondWithError(w, common.ErrInvalidToken)
			return
		}

		claims, err := security.ClaimsFromMap(rawClaims)
		if err != nil {
			common.RespondWithError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after Authenticator.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, common.ErrUnauthorized)
				return
			}
			if claims.Role != role {
				common.RespondWithError(w, common.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(*security.Claims)
	return claims, ok && claims != nil
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}
