package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type ProfileHandler struct {
	log zerolog.Logger
}

func NewProfileHandler(log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{log: log}
}

// Get returns the profile of the logged-in user.
//
// @Summary      Own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	user, err := ws.Backend.CurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update edits the profile of the logged-in user and refreshes the session copy.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Changed fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := ws.Backend.UpdateCurrentUser(ctx, req.toDomain())
	if err != nil {
		return err
	}
	if _, err := ws.Session.RefreshUser(ctx); err != nil {
		h.log.Warn().Err(err).Msg("refresh after profile update failed")
	}
	return c.JSON(http.StatusOK, user)
}
