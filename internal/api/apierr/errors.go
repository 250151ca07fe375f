package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rinkhq/pickup-admin/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeGameCompleted     = "GAME_ALREADY_COMPLETED"
	CodeNotInWaitlist     = "PLAYER_NOT_IN_WAITLIST"
	CodeNotInList         = "PLAYER_NOT_IN_LIST"
	CodeInvalidRosterList = "INVALID_ROSTER_LIST"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodePassNotFound      = "PASS_NOT_FOUND"
	CodeInvalidPassType   = "INVALID_PASS_TYPE"
	CodeCityNotFound      = "CITY_NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrGameAlreadyCompleted):
		return &httpError{http.StatusConflict, APIError{CodeGameCompleted, "Game has already been completed"}}
	case errors.Is(err, model.ErrPlayerNotInWaitlist):
		return &httpError{http.StatusConflict, APIError{CodeNotInWaitlist, "Player is not on the waitlist"}}
	case errors.Is(err, model.ErrPlayerNotInList):
		return &httpError{http.StatusConflict, APIError{CodeNotInList, "Player is not on that list"}}
	case errors.Is(err, model.ErrInvalidRosterList):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRosterList, "List must be waitlist or players"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrPassNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePassNotFound, "Pass not found"}}
	case errors.Is(err, model.ErrInvalidPassType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPassType, "Unknown pass type"}}
	case errors.Is(err, model.ErrCityNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCityNotFound, "City not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
