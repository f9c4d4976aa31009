package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/ports"
)

// DashboardHandler serves the group overview.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary handles GET /api/dashboard.
//
// @Summary      Dashboard summary
// @Description  Counts, total value, reminder and warranty outlook, recent items and achievement progress.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardSummary
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	s, err := h.service.Summary(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, s)
}
