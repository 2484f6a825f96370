package common

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondWithText writes a plain-text body. Auth failures use it exclusively;
// clients tell failures apart by status code only.
func RespondWithText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(message)); err != nil {
		slog.Warn("Failed to write response body", "err", err)
	}
}

// RespondWithError writes err as plain text with the status derived from it.
// Errors without a mapped status are reported generically.
func RespondWithError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		slog.Error("Internal error while serving request", "err", err)
	}
	RespondWithText(w, code, MessageFromError(err))
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		RespondWithText(w, http.StatusInternalServerError, "Failed to marshal JSON response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
