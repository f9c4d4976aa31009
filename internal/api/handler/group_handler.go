package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// GroupHandler serves group settings and the subscription.
type GroupHandler struct {
	service ports.GroupService
}

func NewGroupHandler(service ports.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// Get handles GET /api/admin/group.
//
// @Summary      Group settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Group
// @Router       /api/admin/group [get]
func (h *GroupHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	g, err := h.service.Get(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, g)
}

// Update handles PUT /api/admin/group.
//
// @Summary      Update group settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      groupSettingsRequest  true  "Settings to change"
// @Success      200   {object}  domain.Group
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/group [put]
func (h *GroupHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req groupSettingsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	g, err := h.service.UpdateSettings(c.Request().Context(), actor, ports.GroupSettingsInput{
		Name:            req.Name,
		AssetIDPrefix:   req.AssetIDPrefix,
		AssetIDPadding:  req.AssetIDPadding,
		AssetAutoAssign: req.AssetAutoAssign,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, g)
}

// RegenerateInvite handles POST /api/admin/group/invite.
//
// @Summary      Regenerate the invite code
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Group
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/group/invite [post]
func (h *GroupHandler) RegenerateInvite(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	g, err := h.service.RegenerateInvite(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, g)
}

// Subscription handles GET /api/subscriptions.
//
// @Summary      Current plan and usage
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  subscriptionResponse
// @Router       /api/subscriptions [get]
func (h *GroupHandler) Subscription(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	v, err := h.service.Subscription(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSubscriptionResponse(v))
}

// ChangePlan handles PUT /api/subscriptions.
//
// @Summary      Change or cancel the plan
// @Description  Downgrades are rejected while usage exceeds the new plan's limits.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePlanRequest  true  "Target plan"
// @Success      200   {object}  subscriptionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/subscriptions [put]
func (h *GroupHandler) ChangePlan(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req changePlanRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	v, err := h.service.ChangePlan(c.Request().Context(), actor, ports.ChangePlanInput{
		Plan:   domain.Plan(req.Plan),
		Cancel: req.Cancel,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toSubscriptionResponse(v))
}

func toSubscriptionResponse(v *ports.SubscriptionView) subscriptionResponse {
	return subscriptionResponse{
		Subscription: v.Subscription,
		Limits:       v.Limits,
		Usage:        usageResponse{Items: v.Usage.Items, Members: v.Usage.Members},
	}
}
