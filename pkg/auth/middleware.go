package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/simple-school/school-security/pkg/errors"
)

// Credentials is the stored identity a login attempt is verified against.
type Credentials struct {
	UserID       uuid.UUID
	Username     string
	PasswordHash string
	Permissions  []string
}

// ErrCredentialsNotFound is returned by a CredentialStore when the
// username is unknown.
var ErrCredentialsNotFound = errors.New(errors.ErrCodeInvalidCredentials, "unknown username")

// CredentialStore loads stored credentials by username.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (Credentials, error)
}

// BasicAuth authenticates every request with HTTP Basic credentials,
// resolves the user's permission set and installs the principal into the
// request context. Missing or invalid credentials end the request with 401.
func BasicAuth(store CredentialStore, hasher PasswordHasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, "authentication required")
				return
			}

			creds, err := store.FindByUsername(r.Context(), username)
			if err != nil {
				if !errors.IsCode(err, errors.ErrCodeInvalidCredentials) {
					slog.Error("Failed loading credentials", "username", username, "err", err)
				}
				unauthorized(w, r, "invalid credentials")
				return
			}

			match, err := hasher.Verify(password, creds.PasswordHash)
			if err != nil {
				slog.Error("Failed verifying password", "username", username, "err", err)
				unauthorized(w, r, "invalid credentials")
				return
			}
			if !match {
				unauthorized(w, r, "invalid credentials")
				return
			}

			principal := NewPrincipal(creds.UserID, creds.Username, creds.Permissions)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="school"`)
	errors.Render(w, r, errors.Unauthorized(message))
}
