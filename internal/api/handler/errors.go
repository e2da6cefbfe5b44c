package handler

import (
	"net/http"

	"github.com/mkarahan/worlddominion/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest        = apierr.CodeInvalidRequest
	CodeInvalidName           = apierr.CodeInvalidName
	CodeInvalidCountry        = apierr.CodeInvalidCountry
	CodePlayerNotFound        = apierr.CodePlayerNotFound
	CodeRoomNotFound          = apierr.CodeRoomNotFound
	CodeRoomFull              = apierr.CodeRoomFull
	CodeNotInRoom             = apierr.CodeNotInRoom
	CodeInsufficientResources = apierr.CodeInsufficientResources
	CodeUnknownBuilding       = apierr.CodeUnknownBuilding
	CodeTechNotFound          = apierr.CodeTechNotFound
	CodeTechAlreadyOwned      = apierr.CodeTechAlreadyOwned
	CodeMissingPrerequisite   = apierr.CodeMissingPrerequisite
	CodeInternalError         = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}
