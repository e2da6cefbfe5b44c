package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkarahan/worlddominion/internal/model"
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
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInvalidName           = "INVALID_NAME"
	CodeInvalidCountry        = "INVALID_COUNTRY"
	CodePlayerNotFound        = "PLAYER_NOT_FOUND"
	CodeRoomNotFound          = "ROOM_NOT_FOUND"
	CodeRoomFull              = "ROOM_FULL"
	CodeNotInRoom             = "NOT_IN_ROOM"
	CodeInsufficientResources = "INSUFFICIENT_RESOURCES"
	CodeUnknownBuilding       = "UNKNOWN_BUILDING"
	CodeTechNotFound          = "TECH_NOT_FOUND"
	CodeTechAlreadyOwned      = "TECH_ALREADY_OWNED"
	CodeMissingPrerequisite   = "MISSING_PREREQUISITE"
	CodeNotFound              = "NOT_FOUND"
	CodeInternalError         = "INTERNAL_ERROR"
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
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrNotInRoom):
		return &httpError{http.StatusNotFound, APIError{CodeNotInRoom, "Player is not in this room"}}
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Player name must not be empty"}}
	case errors.Is(err, model.ErrInvalidCountry):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCountry, "Unknown country"}}
	case errors.Is(err, model.ErrInsufficientResources):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientResources, "Not enough resources"}}
	case errors.Is(err, model.ErrUnknownBuilding):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownBuilding, "Unknown building type"}}
	case errors.Is(err, model.ErrTechNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTechNotFound, "Technology not found"}}
	case errors.Is(err, model.ErrTechAlreadyOwned):
		return &httpError{http.StatusConflict, APIError{CodeTechAlreadyOwned, "Technology already researched"}}
	case errors.Is(err, model.ErrMissingPrerequisite):
		return &httpError{http.StatusConflict, APIError{CodeMissingPrerequisite, "Prerequisite technology missing"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotFoundError creates a generic not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
