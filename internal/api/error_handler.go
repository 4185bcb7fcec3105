package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/api/middleware"
	"github.com/work21/portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all portal errors.
type errorResponse struct {
	Error    string       `json:"error"`
	Redirect domain.Route `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Passes backend rejections through with the backend status and message.
//   - Treats a backend 401/403 as an invalid session: logs the browser out and
//     points it at the login page.
//   - Hides transport failures behind a generic message, logging the cause.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, handler validation).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	if apiErr, ok := domain.AsAPIError(err); ok {
		if apiErr.IsAuth() {
			if ws, ok := middleware.Workspace(c); ok {
				ws.Session.Logout(c.Request().Context())
			}
			return http.StatusUnauthorized, errorResponse{Error: apiErr.Message, Redirect: domain.RouteLogin}
		}
		return apiErr.Status, errorResponse{Error: apiErr.Message}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: domain.RouteLogin}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidTheme):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable, errorResponse{Error: "session expired, retry the request"}
	case errors.Is(err, domain.ErrLoginFailed), errors.Is(err, domain.ErrRegisterFailed):
		return http.StatusBadGateway, errorResponse{Error: err.Error()}
	// A browser abort surfaces as a transport error too; it is not a backend fault.
	case errors.Is(err, context.Canceled):
		return 499, errorResponse{Error: "request cancelled"}
	case errors.Is(err, domain.ErrBackendUnavailable):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend unavailable")
		return http.StatusBadGateway, errorResponse{Error: domain.ErrBackendUnavailable.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
