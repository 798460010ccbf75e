package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(ErrHotelNotFound, "Hotel %s not found", "abc")

	assert.True(t, errors.Is(err, ErrHotelNotFound))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Hotel abc not found", err.Error())
}

func TestIsThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("release bookings: %w", Wrap(ErrAccommodationNotFound, "Accommodation %s not found", "x"))

	assert.True(t, errors.Is(err, ErrAccommodationNotFound))
}

func TestFrom(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"app error", ErrForbidden, "Forbidden", http.StatusForbidden},
		{"wrapped app error", fmt.Errorf("gate: %w", ErrUnauthenticated), "Unauthenticated", http.StatusUnauthorized},
		{"plain error", errors.New("boom"), "InternalError", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := From(tc.err)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, tc.wantStatus, got.Status)
		})
	}
}

func TestPublicMessageHidesServerCause(t *testing.T) {
	internal := WithCause(ErrInternal, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, "Internal Server Error", internal.PublicMessage())

	validation := WithCause(ErrValidation, errors.New("name: min"))
	assert.Equal(t, "Validation failed: name: min", validation.PublicMessage())
}
