package httpadapter

import (
	"net/http"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrEmptyBody):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrModelOutputInvalid),
		domain.IsKind(err, domain.ErrExtractionService):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrMalformedContainer),
		domain.IsKind(err, domain.ErrDecoderUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
