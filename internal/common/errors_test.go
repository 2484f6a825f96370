package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrValidation, http.StatusBadRequest},
		{ErrPasswordTooLong, http.StatusBadRequest},
		{ErrNotFound, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusBadRequest},
		{ErrInvalidToken, http.StatusBadRequest},
		{fmt.Errorf("create: %w", ErrDuplicateEmail), http.StatusConflict},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrProblemNotFound, http.StatusNotFound},
		{ErrNetwork, http.StatusBadGateway},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusFromError(tc.err), "err=%v", tc.err)
	}
}

func TestRespondWithErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, fmt.Errorf("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestRespondWithErrorPlainText(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, ErrNotFound)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", rec.Body.String())
}
