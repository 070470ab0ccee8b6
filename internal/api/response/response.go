// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Broker-Document-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// FieldDetails describes which field of a document failed to extract.
type FieldDetails struct {
	Field string `json:"field,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// StatusFor maps document and import errors to an HTTP status code.
//
//   - empty document: 400 Bad Request
//   - classification and extraction failures: 422 Unprocessable Entity
//   - duplicate document, source not retained: 409 Conflict
//   - unknown activity: 404 Not Found
//   - anything else: 500 Internal Server Error
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotThisBroker),
		errors.Is(err, apperrors.ErrAmbiguousBroker),
		errors.Is(err, apperrors.ErrUnrecognizedVariant),
		errors.Is(err, apperrors.ErrMissingRequiredField),
		errors.Is(err, apperrors.ErrMalformedNumber),
		errors.Is(err, apperrors.ErrInvalidISIN),
		errors.Is(err, apperrors.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicateDocument),
		errors.Is(err, apperrors.ErrSourceNotRetained):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrActivityNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondDocumentError sends the error of a document operation with the
// status from StatusFor. Extraction errors carry the failing field and the
// raw snippet as details; unexpected errors are reported under fallback.
func RespondDocumentError(w http.ResponseWriter, err error, fallback error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		RespondError(w, status, fallback.Error(), err.Error())
		return
	}

	var fe *parser.FieldError
	if errors.As(err, &fe) {
		RespondError(w, status, err.Error(), FieldDetails{Field: fe.Field, Raw: fe.Raw})
		return
	}
	RespondError(w, status, err.Error(), nil)
}
