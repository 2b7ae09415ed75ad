package handler

import (
	"errors"
	"net/http"
	"strings"

	"hospital-booking/internal/usecase"
	"hospital-booking/pkg/response"
)

// writeError covers the failures every endpoint shares. Endpoint-specific
// errors are matched by the handler before falling through to here.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		response.BadRequest(w, validationMessage(err))
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "")
	case errors.Is(err, usecase.ErrOutcomeUnknown):
		response.GatewayTimeout(w, "Request timed out; check your appointments before retrying")
	case errors.Is(err, usecase.ErrTimeout):
		response.GatewayTimeout(w, "")
	default:
		response.InternalServerError(w, fallback)
	}
}

func validationMessage(err error) string {
	message := strings.TrimPrefix(err.Error(), usecase.ErrValidation.Error()+": ")
	if message == "" {
		return "Invalid request"
	}
	return strings.ToUpper(message[:1]) + message[1:]
}
