package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("access denied")
	ErrForbidden          = errors.New("forbidden")
	ErrNetwork            = errors.New("execution service unreachable")
	ErrNoOutput           = errors.New("execution returned no results")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Lookup failures and bad credentials share 400 so callers cannot
// distinguish them by anything but the body.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, ErrProblemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrNoOutput):
		return http.StatusBadGateway
	}

	if IsDuplicateKey(err) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// MessageFromError returns the plain-text body sent for err.
func MessageFromError(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "Missing required fields"
	case errors.Is(err, ErrPasswordTooLong):
		return "Password must be at most 72 bytes"
	case errors.Is(err, ErrDuplicateEmail), IsDuplicateKey(err):
		return "Email already registered"
	case errors.Is(err, ErrNotFound):
		return "User not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid password"
	case errors.Is(err, ErrProblemNotFound):
		return "Problem not found"
	case errors.Is(err, ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, ErrUnauthorized):
		return "Access denied"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrNoOutput):
		return "Execution service unavailable"
	}
	return "Server error"
}

// IsDuplicateKey reports whether err is a unique constraint violation from
// either Postgres (23505) or MongoDB (11000).
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}
