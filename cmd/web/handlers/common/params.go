package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireCodeParam extracts a crop session code route parameter or returns
// a 400 error. Codes are UUIDs; the canonical string form is returned.
func RequireCodeParam(c echo.Context, param string) (string, error) {
	u, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
	}
	return u.String(), nil
}
