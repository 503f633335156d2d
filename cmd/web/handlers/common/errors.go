package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrBadRequest returns a 400 Bad Request error.
func ErrBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// ErrNotFound returns a 404 Not Found error.
func ErrNotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

// ErrTooManyRequests returns a 429 Too Many Requests error.
func ErrTooManyRequests(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusTooManyRequests, msg)
}

// ErrServiceUnavailable returns a 503 Service Unavailable error.
func ErrServiceUnavailable(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusServiceUnavailable, msg)
}

// ErrInternal returns a 500 Internal Server Error.
func ErrInternal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}
