package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/core/domain"
)

// ThemeHandler reads and stores the colour scheme preference in the
// client-local storage of the browser session.
type ThemeHandler struct {
	log zerolog.Logger
}

func NewThemeHandler(log zerolog.Logger) *ThemeHandler {
	return &ThemeHandler{log: log}
}

// Get returns the stored theme, or "system" when none or an unknown value is
// stored.
//
// @Summary      Theme preference
// @Tags         theme
// @Produce      json
// @Success      200  {object}  themeResponse
// @Router       /theme [get]
func (h *ThemeHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	theme := domain.ThemeSystem
	raw, ok, err := ws.Storage.Get(c.Request().Context(), domain.ThemeKey)
	switch {
	case err != nil:
		h.log.Warn().Err(err).Msg("read theme failed")
	case ok:
		if t, err := domain.ParseTheme(raw); err == nil {
			theme = t
		}
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: theme})
}

// Put stores the theme preference.
//
// @Summary      Set theme preference
// @Tags         theme
// @Accept       json
// @Produce      json
// @Param        body  body      themeRequest  true  "Theme"
// @Success      200   {object}  themeResponse
// @Failure      400   {object}  errorResponse
// @Router       /theme [put]
func (h *ThemeHandler) Put(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req themeRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	theme, err := domain.ParseTheme(req.Theme)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := ws.Storage.Set(c.Request().Context(), domain.ThemeKey, string(theme)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: theme})
}
