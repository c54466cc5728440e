package user

import (
	"context"
	"errors"

	"github.com/simple-school/school-security/pkg/auth"
)

// CredentialStore adapts a user repository to the basic-auth middleware.
type CredentialStore struct {
	repo Repository
}

// NewCredentialStore creates a credential store backed by repo.
func NewCredentialStore(repo Repository) *CredentialStore {
	return &CredentialStore{repo: repo}
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (auth.Credentials, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return auth.Credentials{}, auth.ErrCredentialsNotFound
		}
		return auth.Credentials{}, err
	}
	return auth.Credentials{
		UserID:       u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Permissions:  u.Permissions,
	}, nil
}
