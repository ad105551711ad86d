package handler

import (
	"errors"
	"net/http"

	"github.com/manas360/practice-api/internal/api/response"
	"github.com/manas360/practice-api/internal/domain"
)

// writeError maps domain sentinel errors onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPatientNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrDuplicateID),
		errors.Is(err, domain.ErrInvalidTransition):
		response.Conflict(w, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		response.BadGateway(w, err.Error())
	default:
		response.InternalError(w, err.Error())
	}
}
