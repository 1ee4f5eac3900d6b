package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrServiceNotFound is returned when a service request is not found.
	ErrServiceNotFound = errors.New("service request not found")
	// ErrDiscountNotFound is returned when a discount tier is not found.
	ErrDiscountNotFound = errors.New("discount not found")
	// ErrLocationNotFound is returned when a location is not found.
	ErrLocationNotFound = errors.New("location not found")
	// ErrForbidden is returned when the caller lacks the required permission.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidTransition is returned on an illegal service status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrProfileInactive is returned when a profile has been deactivated.
	ErrProfileInactive = errors.New("profile is not active")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrProfileNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case ErrServiceNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "SERVICE_NOT_FOUND")
	case ErrDiscountNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "DISCOUNT_NOT_FOUND")
	case ErrLocationNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "LOCATION_NOT_FOUND")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrInvalidTransition:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TRANSITION")
	case ErrProfileInactive:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PROFILE_INACTIVE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
