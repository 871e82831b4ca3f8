package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInvalidAPIKey indicates the presented API key does not match.
type ErrInvalidAPIKey struct{}

func (e *ErrInvalidAPIKey) Error() string {
	return "invalid api key"
}

// ErrNavigation indicates the tab could not be moved to the requested page.
type ErrNavigation struct {
	URL   string
	Cause error
}

func (e *ErrNavigation) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("cannot navigate to %s", e.URL)
	}
	return fmt.Sprintf("cannot navigate to %s: %v", e.URL, e.Cause)
}

func (e *ErrNavigation) Unwrap() error {
	return e.Cause
}

// ErrNoStore indicates fill history was requested without a database.
var ErrNoStore = errors.New("fill history requires a database")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var apiKey *ErrInvalidAPIKey
	var nav *ErrNavigation
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &apiKey):
		return http.StatusUnauthorized
	case errors.As(err, &nav):
		if nav.Cause == nil {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.Is(err, ErrNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator errors into an ErrValidation for the first failing
// field.
func validationError(err error) *ErrValidation {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &ErrValidation{Field: ve[0].Namespace(), Message: ve[0].Tag()}
	}
	return &ErrValidation{Field: "request", Message: err.Error()}
}
