package auth

import (
	"context"
	"errors"
	"testing"

	"task-tracker/internal/apperrors"
	"task-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubLoader struct {
	users map[string]*models.User
	err   error
}

func (s *stubLoader) LoadByUsername(_ context.Context, username string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found: %s", username)
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	loader := &stubLoader{users: map[string]*models.User{
		"alice": {Username: "alice", Email: "alice@example.com", Password: hash},
	}}
	return NewAuthenticator(loader, hasher)
}

func TestAuthenticator_Success(t *testing.T) {
	a := newTestAuthenticator(t)

	user, err := a.Authenticate(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticator_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	a := newTestAuthenticator(t)

	_, wrongPassword := a.Authenticate(context.Background(), "alice", "nope")
	_, unknownUser := a.Authenticate(context.Background(), "mallory", "correct-horse")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticator_PropagatesStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	a := NewAuthenticator(&stubLoader{err: storeErr}, NewPasswordHasher(bcrypt.MinCost))

	_, err := a.Authenticate(context.Background(), "alice", "x")
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, errors.Is(err, apperrors.ErrInvalidCredentials))
}
