package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad request", fmt.Errorf("%w: missing fields: name, city", ErrBadRequest), http.StatusBadRequest, "missing fields: name, city"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"not found", fmt.Errorf("%w: order ORD1 not found", ErrNotFound), http.StatusNotFound, "order ORD1 not found"},
		{"rate limited", fmt.Errorf("%w: wait 30 second(s)", ErrTooManyRequests), http.StatusTooManyRequests, "wait 30 second(s)"},
		{"upstream", fmt.Errorf("%w: email: boom", ErrUpstream), http.StatusInternalServerError, "upstream service error"},
		{"upstream provider text", fmt.Errorf("%w: razorpay order: %w", ErrUpstream, errors.New("BAD_REQUEST_ERROR: key_id rzp_live_x invalid")), http.StatusInternalServerError, "upstream service error"},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
