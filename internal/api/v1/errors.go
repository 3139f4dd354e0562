package v1

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/unistay/internal/domain"
)

// mutationError maps a Dispatch or service error onto an HTTP status. Domain
// rejections carry their reason as the detail; anything else is a 500.
func mutationError(err error, fallback string) error {
	detail := err.Error()
	var rej *domain.Rejection
	if errors.As(err, &rej) {
		detail = rej.Reason
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(detail)
	case errors.Is(err, domain.ErrQuotaExceeded):
		return huma.Error403Forbidden(detail)
	case errors.Is(err, domain.ErrRoomOccupied), errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(detail)
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(detail)
	default:
		log.Error().Err(err).Msg(fallback)
		return huma.Error500InternalServerError(fallback, err)
	}
}
