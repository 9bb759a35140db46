package middleware

import (
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/gamehub/internal/auth"
	"github.com/vaughan-dsouza/gamehub/internal/utils"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// IdentityHandler is a handler that runs only after a bearer token has been
// verified, and gets the resulting identity as a parameter.
type IdentityHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticated verifies the bearer token and hands the identity to next.
// Every failure is a 401.
func Authenticated(v TokenVerifier, next IdentityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := v.Verify(token)
		if err != nil {
			utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next(w, r, id)
	}
}
