package common

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
)

// HubError maps crop hub and selector errors onto HTTP errors.
func HubError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, crophub.ErrSessionNotFound):
		return ErrNotFound("crop session not found")
	case errors.Is(err, crophub.ErrTooManySessions):
		return ErrServiceUnavailable("too many crop sessions")
	case errors.Is(err, crophub.ErrTooManyStreams):
		return ErrTooManyRequests("too many open crop streams")
	case errors.Is(err, crops.ErrInvalidRatioLabel):
		return ErrBadRequest(err.Error())
	default:
		slog.Error("crop session operation failed", "error", err)
		return ErrInternal("crop session error")
	}
}

// NoContent is the response for event endpoints: the stream carries the
// resulting patches.
func NoContent(c echo.Context) error {
	return c.NoContent(204)
}
