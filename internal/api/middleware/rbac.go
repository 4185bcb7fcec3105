package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/work21/portal/internal/core/domain"
)

// unauthenticatedResponse tells the browser to go to the login page.
type unauthenticatedResponse struct {
	Error    string       `json:"error"`
	Redirect domain.Route `json:"redirect"`
}

// RequireRole lets the request through only for a logged-in user holding one
// of allowedRoles. With no roles any logged-in user passes.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, ok := Workspace(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "workspace not mounted")
			}

			user := ws.Session.Snapshot().User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, unauthenticatedResponse{
					Error:    domain.ErrUnauthenticated.Error(),
					Redirect: domain.RouteLogin,
				})
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}

// RequireAuth lets the request through for any logged-in user.
func RequireAuth() echo.MiddlewareFunc {
	return RequireRole()
}
