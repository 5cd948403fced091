package exceptions

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewCustomError(t *testing.T) {
	t.Run("wraps the cause into the dev message", func(t *testing.T) {
		cause := errors.New("boom")
		customErr := ErrMongoDBFindDocument(cause)

		assert.Equal(t, http.StatusInternalServerError, customErr.StatusCode)
		assert.Equal(t, CodeInternal, customErr.Code)
		assert.Contains(t, customErr.DevMessage, "boom")
		assert.ErrorIs(t, customErr, cause)
	})

	t.Run("records the caller location", func(t *testing.T) {
		customErr := ErrTokenMissing(nil)

		assert.Contains(t, customErr.Location.File, "error_test.go")
		assert.Contains(t, customErr.Location.FunctionName, "TestBuildNewCustomError")
	})

	t.Run("nil cause keeps the plain dev message", func(t *testing.T) {
		customErr := ErrTokenExpired(nil)
		assert.Equal(t, "token expired", customErr.DevMessage)
	})
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    *CustomError
		status int
		code   string
	}{
		{"unauthenticated", ErrTokenInvalid(nil), http.StatusUnauthorized, CodeUnauthenticated},
		{"forbidden", ErrForbidden(nil, "ROLE_NOT_PERMITTED"), http.StatusForbidden, CodeForbidden},
		{"server misconfigured", ErrServerMisconfigured(nil, "IDENTITY_MISSING"), http.StatusInternalServerError, CodeServerMisconfigured},
		{"invalid query", ErrInvalidQuery(nil, "foo", []string{"a", "b"}), http.StatusBadRequest, CodeInvalidQuery},
		{"not found", ErrNotFound(nil, "patient"), http.StatusNotFound, CodeNotFound},
		{"invalid identifier", ErrInvalidIdentifier(nil, "patient"), http.StatusBadRequest, CodeInvalidIdentifier},
		{"conflict", ErrConflict(nil, "patients"), http.StatusBadRequest, CodeConflict},
		{"stale write", ErrStaleWrite(nil, "patients", "abc", 3), http.StatusConflict, CodeStaleWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestErrInvalidQueryNamesParamAndAllowedSet(t *testing.T) {
	customErr := ErrInvalidQuery(nil, "password", []string{"email", "role"})

	assert.Contains(t, customErr.ClientMessage, "'password'")
	assert.Contains(t, customErr.ClientMessage, "email, role")
}

func TestErrConflictDoesNotLeakField(t *testing.T) {
	customErr := ErrConflict(errors.New("E11000 duplicate key error index: nationalId_1"), "patients")

	assert.Equal(t, "already exists", customErr.ClientMessage)
	assert.NotContains(t, customErr.ClientMessage, "nationalId")
}

func TestAsCustomError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrForbidden(nil, "DEPARTMENT_MISMATCH"))

	customErr, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "DEPARTMENT_MISMATCH", customErr.Reason)
	assert.True(t, HasCode(wrapped, CodeForbidden))

	_, ok = AsCustomError(errors.New("plain"))
	assert.False(t, ok)
}
