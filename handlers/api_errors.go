package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/groupwatchapp/groupwatchbackend/services"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteServiceError maps the registry error taxonomy onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var notFoundErr *services.NotFoundError
	var forbiddenErr *services.ForbiddenError

	switch {
	case errors.As(err, &validationErr):
		WriteAPIError(w, http.StatusBadRequest, "validation_error", validationErr.Detail)
	case errors.As(err, &conflictErr):
		WriteAPIError(w, http.StatusConflict, "conflict", conflictErr.Detail)
	case errors.As(err, &notFoundErr):
		WriteAPIError(w, http.StatusNotFound, "not_found", notFoundErr.Detail)
	case errors.As(err, &forbiddenErr):
		WriteAPIError(w, http.StatusForbidden, "forbidden", forbiddenErr.Detail)
	default:
		log.Printf("handlers: internal error: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("handlers: failed to encode response: %v", err)
		}
	}
}
