package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", NotFound("slot", 7), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load: %w", NotFound("user", 1)), http.StatusNotFound, "NOT_FOUND"},
		{"validation", Validation("INVALID_INTERVAL", "bad"), http.StatusBadRequest, "INVALID_INTERVAL"},
		{"conflict", Conflict("SLOT_UNAVAILABLE", "taken"), http.StatusBadRequest, "SLOT_UNAVAILABLE"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"refresh", ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("lawyer", 2)))
	assert.Equal(t, "lawyer 2 not found", NotFound("lawyer", 2).Error())
	assert.True(t, IsConflict(fmt.Errorf("x: %w", Conflict("C", "c"))))
	assert.True(t, IsValidation(Validation("V", "v")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
