// Package auth verifies credentials and issues the bearer tokens that
// protect the task API.
package auth

import (
	"context"
	"errors"

	"task-tracker/internal/apperrors"
	"task-tracker/internal/models"
)

// UserLoader is the only capability the authenticator needs from the user
// service.
type UserLoader interface {
	LoadByUsername(ctx context.Context, username string) (*models.User, error)
}

type Authenticator struct {
	users  UserLoader
	hasher *PasswordHasher
}

func NewAuthenticator(users UserLoader, hasher *PasswordHasher) *Authenticator {
	return &Authenticator{users: users, hasher: hasher}
}

// Authenticate reports an unknown username and a wrong password with the
// same error.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.users.LoadByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, err
	}

	if !a.hasher.Verify(password, user.Password) {
		return nil, apperrors.InvalidCredentials()
	}

	return user, nil
}
