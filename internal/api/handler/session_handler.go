package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SessionHandler exposes the session state of the calling browser.
type SessionHandler struct {
	log zerolog.Logger
}

func NewSessionHandler(log zerolog.Logger) *SessionHandler {
	return &SessionHandler{log: log}
}

// Get returns the current session state.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.SessionState
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Session.Snapshot())
}

// Refresh re-fetches the current user. A failed refresh logs the session out;
// the reply then carries the redirect to the landing page.
//
// @Summary      Refresh the current user
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Transition
// @Router       /session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	tr, err := ws.Session.RefreshUser(c.Request().Context())
	if err != nil {
		h.log.Info().Err(err).Msg("session refresh failed")
	}
	return c.JSON(http.StatusOK, tr)
}
