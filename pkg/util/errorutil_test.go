package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		original := NewForbidden("no")
		got := ToDomainError(original)
		assert.Equal(t, "FORBIDDEN", got.Code)
		assert.Equal(t, http.StatusForbidden, got.HTTPStatus)
	})

	t.Run("wrapped domain errors unwrap", func(t *testing.T) {
		wrapped := &DomainError{
			Code:       "CONFLICT",
			Message:    "dup",
			HTTPStatus: http.StatusConflict,
			Err:        errors.New("inner"),
		}
		got := ToDomainError(wrapped)
		assert.Equal(t, "CONFLICT", got.Code)
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		got := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", got.Code)
		assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	})

	t.Run("everything else is internal", func(t *testing.T) {
		got := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	})
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewInternalError(inner)

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, domainErr.Error(), "inner")
}
