package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/andesbank/accountms/internal/clients"
	"github.com/andesbank/accountms/internal/services"
	"github.com/go-playground/validator/v10"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeResponse(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ApiResponse{Status: status, Message: message, Data: data})
}

// writeError translates engine error kinds into HTTP statuses. Anything
// outside the taxonomy is an internal failure and stays opaque.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, clients.ErrCustomerNotFound):
		writeResponse(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrAccountAlreadyExists),
		errors.Is(err, services.ErrUnsupportedAccountType):
		writeResponse(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, clients.ErrCustomerLookupFailed):
		writeResponse(w, http.StatusBadGateway, "customer service is unavailable, please try again later", nil)
	default:
		log.Printf("[API] unexpected error: %v", err)
		writeResponse(w, http.StatusInternalServerError, "an unexpected error occurred, please try again later", nil)
	}
}

// writeValidationError reports struct-validation failures field by field.
func writeValidationError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string)
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = "field validation failed on '" + fieldErr.Tag() + "' tag"
		}
		writeResponse(w, http.StatusBadRequest, "Validation failed", details)
		return
	}
	writeResponse(w, http.StatusBadRequest, "Validation failed", nil)
}
