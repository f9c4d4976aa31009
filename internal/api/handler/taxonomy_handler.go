package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/ports"
)

// CategoryHandler serves item categories.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /api/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Category
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	cats, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cats)
}

// Get handles GET /api/categories/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  domain.Category
// @Failure      404  {object}  errorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	cat, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cat)
}

// Create handles POST /api/categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := h.service.Create(c.Request().Context(), actor, ports.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, cat)
}

// Update handles PUT /api/categories/:id.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category ID"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  domain.Category
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cat)
}

// Delete handles DELETE /api/categories/:id.
//
// @Summary      Delete a category
// @Description  Fails while any item, archived or not, still uses the category.
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "category deleted")
}

// LabelHandler serves item labels.
type LabelHandler struct {
	service ports.LabelService
}

func NewLabelHandler(service ports.LabelService) *LabelHandler {
	return &LabelHandler{service: service}
}

// List handles GET /api/labels.
//
// @Summary      List labels
// @Tags         labels
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Label
// @Router       /api/labels [get]
func (h *LabelHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	labels, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, labels)
}

// Get handles GET /api/labels/:id.
//
// @Summary      Get a label
// @Tags         labels
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Label ID"
// @Success      200  {object}  domain.Label
// @Failure      404  {object}  errorResponse
// @Router       /api/labels/{id} [get]
func (h *LabelHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	label, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, label)
}

// Create handles POST /api/labels.
//
// @Summary      Create a label
// @Tags         labels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      labelRequest  true  "Label"
// @Success      201   {object}  domain.Label
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/labels [post]
func (h *LabelHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req labelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	label, err := h.service.Create(c.Request().Context(), actor, ports.LabelInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, label)
}

// Update handles PUT /api/labels/:id.
//
// @Summary      Update a label
// @Tags         labels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Label ID"
// @Param        body  body      labelRequest  true  "Label"
// @Success      200   {object}  domain.Label
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/labels/{id} [put]
func (h *LabelHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req labelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	label, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.LabelInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, label)
}

// Delete handles DELETE /api/labels/:id. Items keep existing without the label.
//
// @Summary      Delete a label
// @Tags         labels
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Label ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  errorResponse
// @Router       /api/labels/{id} [delete]
func (h *LabelHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "label deleted")
}
