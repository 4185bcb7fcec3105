package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type EstimatorHandler struct{}

func NewEstimatorHandler() *EstimatorHandler {
	return &EstimatorHandler{}
}

// Estimate forwards a project description to the AI estimator.
//
// @Summary      Estimate a project
// @Tags         estimator
// @Accept       json
// @Produce      json
// @Param        body  body      estimateRequest  true  "Project description"
// @Success      200   {object}  domain.Estimate
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /estimator [post]
func (h *EstimatorHandler) Estimate(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req estimateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	est, err := ws.Backend.Estimate(c.Request().Context(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, est)
}
