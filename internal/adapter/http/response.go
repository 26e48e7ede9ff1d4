package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error    string                  `json:"error"`
	Errors   []ValidationError       `json:"errors,omitempty"`
	Rejected []csvimport.RejectedRow `json:"rejected,omitempty"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsValidation(err),
		errors.Is(err, csvimport.ErrEmptyCatalog),
		errors.Is(err, csvimport.ErrUnsupportedFileType),
		errors.Is(err, bufio.ErrTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondServiceError hides the message of unexpected failures.
func respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	respondJSON(w, status, ErrorResponse{Error: msg})
}
