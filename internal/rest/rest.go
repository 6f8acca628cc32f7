package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/klokku/cleancal/internal/errs"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// WriteError turns a client error into a notification-style response. The
// upstream status, if any, goes into details.
func WriteError(w http.ResponseWriter, err error) {
	status, message := classify(err)
	details := err.Error()
	if upstream := errs.Status(err); upstream != 0 {
		details = "backend status " + strconv.Itoa(upstream)
	}
	WriteJSON(w, status, ErrorResponse{Error: message, Details: details})
}

func classify(err error) (int, string) {
	var validationErr *errs.ValidationError
	var authErr *errs.AuthError
	var fetchErr *errs.FetchError
	var importErr *errs.ImportError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, errs.ErrNoSession):
		return http.StatusUnauthorized, "Not logged in"
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, "Authentication failed"
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, "Failed to fetch calendars"
	case errors.As(err, &importErr):
		return http.StatusBadGateway, "Failed to import calendar"
	default:
		return http.StatusInternalServerError, "Unexpected error"
	}
}
