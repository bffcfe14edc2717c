package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shoenig/test/must"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		must.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("register: %w", NewValidationError("grade required", nil))
		de := ToDomainError(err)
		must.Eq(t, "VALIDATION_FAILED", de.Code)
		must.Eq(t, http.StatusBadRequest, de.HTTPStatus)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("boom")
		de := ToDomainError(cause)
		must.Eq(t, "INTERNAL_ERROR", de.Code)
		must.Eq(t, http.StatusInternalServerError, de.HTTPStatus)
		must.ErrorIs(t, de, cause)
	})
}

func TestFromStatus(t *testing.T) {
	t.Parallel()

	de := FromStatus(http.StatusNotFound, "")
	must.Eq(t, "NOT_FOUND", de.Code)
	must.Eq(t, "Not Found", de.Message)

	de = FromStatus(http.StatusUnauthorized, "sign in first")
	must.Eq(t, "UNAUTHORIZED", de.Code)
	must.Eq(t, "sign in first", de.Message)
}
