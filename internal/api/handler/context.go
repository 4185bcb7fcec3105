package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/work21/portal/internal/api/middleware"
	"github.com/work21/portal/internal/core/ports"
)

// ctxWorkspace returns the workspace mounted by the BrowserSession middleware.
// Its absence means the route was registered without that middleware.
func ctxWorkspace(c echo.Context) (*ports.Workspace, error) {
	ws, ok := middleware.Workspace(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "workspace not mounted")
	}
	return ws, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bindValid binds the request body into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
