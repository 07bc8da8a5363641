package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Fi44er/usdt_topup/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrDepositNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrOperatorNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrOperatorInactive),
		errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError maps service errors to HTTP statuses. Internal errors are logged
// and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		msg = http.StatusText(status)
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return false
	}
	return true
}
