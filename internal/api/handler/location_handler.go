package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/ports"
)

// LocationHandler serves the location hierarchy.
type LocationHandler struct {
	service ports.LocationService
}

func NewLocationHandler(service ports.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// List handles GET /api/locations and returns the flattened hierarchy.
//
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.FlatLocation
// @Router       /api/locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	locs, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, locs)
}

// Tree handles GET /api/locations/tree.
//
// @Summary      Location tree
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.LocationNode
// @Router       /api/locations/tree [get]
func (h *LocationHandler) Tree(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	nodes, err := h.service.Tree(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, nodes)
}

// Get handles GET /api/locations/:id.
//
// @Summary      Location detail
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  locationDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, locationDetailResponse{
		Location:   d.Location,
		Breadcrumb: d.Breadcrumb,
		Children:   d.Children,
		ItemCount:  d.ItemCount,
	})
}

// Create handles POST /api/locations.
//
// @Summary      Create a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      locationRequest  true  "Location"
// @Success      201   {object}  domain.Location
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req locationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loc, err := h.service.Create(c.Request().Context(), actor, ports.LocationInput{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, loc)
}

// Update handles PUT /api/locations/:id.
//
// @Summary      Update a location
// @Description  Moving a location under itself or one of its descendants is rejected.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Location ID"
// @Param        body  body      locationRequest  true  "Location"
// @Success      200   {object}  domain.Location
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/locations/{id} [put]
func (h *LocationHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req locationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loc, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.LocationInput{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, loc)
}

// Delete handles DELETE /api/locations/:id.
//
// @Summary      Delete a location
// @Description  Children and items move to the parent. A root that still holds items cannot be deleted.
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "location deleted")
}
