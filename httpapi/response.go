package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/mailauth"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: true, Message: message})
}

// respondError maps domain sentinels to HTTP statuses; anything unrecognized
// is a 500 with a generic message so internals never leak to callers.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, mailauth.ErrDomainNotFound),
		errors.Is(err, mailauth.ErrAPIKeyNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, mailauth.ErrDuplicateDomain):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, mailauth.ErrInvalidDomainName),
		errors.Is(err, mailauth.ErrInvalidMethod),
		errors.Is(err, mailauth.ErrWrongVerificationMethod),
		errors.Is(err, mailauth.ErrInvalidRecipient),
		errors.Is(err, mailauth.ErrInvalidCode),
		errors.Is(err, mailauth.ErrDomainNotVerified):
		status, message = http.StatusUnprocessableEntity, err.Error()
	}

	writeJSON(w, status, response{Success: false, Error: message})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, response{Success: false, Error: message})
}
