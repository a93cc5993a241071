package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindSlotConflict, http.StatusBadRequest},
		{KindDuplicateKey, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindServer, http.StatusInternalServerError},
		{ErrorKind("Mystery"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.kind))
		})
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("booking: %w", SlotConflict(SLOT_ALREADY_BOOKED))
	assert.True(t, IsKind(wrapped, KindSlotConflict))
	assert.Equal(t, SLOT_ALREADY_BOOKED, AsAppError(wrapped).Message)

	cause := errors.New("socket closed")
	internal := AsAppError(cause)
	assert.Equal(t, KindServer, internal.Kind)
	assert.Equal(t, INTERNAL_SERVER_ERROR, internal.Message)
	assert.ErrorIs(t, internal, cause)
	assert.False(t, IsKind(cause, KindServer))
}

func TestFailedResponseHidesCause(t *testing.T) {
	res := FailedResponse(errors.New("E11000 duplicate key"))
	assert.Equal(t, StatusFailed, res.Status)
	assert.Nil(t, res.Data)
	assert.Equal(t, KindServer, res.Error.Type)
	assert.Equal(t, INTERNAL_SERVER_ERROR, res.Error.Message)

	ok := SuccessResponse(map[string]int{"n": 1})
	assert.Equal(t, StatusSuccess, ok.Status)
	assert.Nil(t, ok.Error)
}
