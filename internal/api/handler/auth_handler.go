package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/work21/portal/internal/core/domain"
)

// AuthHandler drives the session store of the calling browser through login,
// registration and logout.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Login authenticates the browser session against the backend.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Transition
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	tr, err := ws.Session.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return authFailure(err)
	}
	return c.JSON(http.StatusOK, tr)
}

// Register creates an account and logs the browser session in with it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.Transition
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	tr, err := ws.Session.Register(c.Request().Context(), req.toDomain())
	if err != nil {
		return authFailure(err)
	}
	return c.JSON(http.StatusCreated, tr)
}

// Logout forgets the stored token of the browser session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Transition
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Session.Logout(c.Request().Context()))
}

// authFailure surfaces a backend rejection of a login or registration with
// the backend status and message. Unlike page calls, a 401 here is a wrong
// password, not an expired session.
func authFailure(err error) error {
	if apiErr, ok := domain.AsAPIError(err); ok {
		return echo.NewHTTPError(apiErr.Status, apiErr.Message)
	}
	return err
}
