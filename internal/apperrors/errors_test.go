package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"task-tracker/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("load task: %w", apperrors.NotFound("task with id %s not found", "abc"))

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.False(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.Contains(t, err.Error(), "task with id abc not found")
}

func TestAlreadyExistsMessage(t *testing.T) {
	err := apperrors.AlreadyExists("user with this %s already exists", "email")

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, "user with this email already exists", err.Error())
}

func TestValidationFields(t *testing.T) {
	err := apperrors.Validation(map[string]string{"title": "title is required"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, map[string]string{"title": "title is required"}, apperrors.FieldsOf(err))
	assert.Nil(t, apperrors.FieldsOf(errors.New("plain")))
}

func TestInvalidCredentials(t *testing.T) {
	err := apperrors.InvalidCredentials()

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, "Invalid username or password", err.Error())
}
