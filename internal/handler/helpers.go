package handler

import (
	"errors"
	"net/http"

	"countme-core/internal/domain"
	"countme-core/internal/service"
	"countme-core/internal/store"
	"countme-core/pkg/response"
)

// writeServiceError maps service-layer failures to HTTP statuses: validation
// to 400, ownership to 403, missing records to 404, the rest to 500 with the
// generic fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w, fallback)
	default:
		response.InternalError(w, fallback)
	}
}
