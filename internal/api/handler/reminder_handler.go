package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/ports"
)

// ReminderHandler serves item reminders.
type ReminderHandler struct {
	service ports.ReminderService
	now     func() time.Time
}

func NewReminderHandler(service ports.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: service, now: time.Now}
}

// List handles GET /api/reminders.
//
// @Summary      List reminders
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "upcoming, overdue, completed or all"
// @Param        item_id  query     string  false  "Only reminders of this item"
// @Param        limit    query     int     false  "Maximum number of reminders"
// @Success      200  {array}   reminderResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/reminders [get]
func (h *ReminderHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var in ports.ListRemindersInput
	err = echo.QueryParamsBinder(c).
		String("status", &in.Status).
		String("item_id", &in.ItemID).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	reminders, err := h.service.List(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	now := h.now()
	out := make([]*reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, toReminderResponse(r, now))
	}
	return respond(c, http.StatusOK, out)
}

// Get handles GET /api/reminders/:id.
//
// @Summary      Get a reminder
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  reminderResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reminders/{id} [get]
func (h *ReminderHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	r, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toReminderResponse(r, h.now()))
}

// Create handles POST /api/reminders.
//
// @Summary      Create a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reminderRequest  true  "Reminder"
// @Success      201   {object}  reminderResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/reminders [post]
func (h *ReminderHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req reminderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, toReminderResponse(r, h.now()))
}

// Update handles PUT /api/reminders/:id.
//
// @Summary      Update a reminder
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Reminder ID"
// @Param        body  body      reminderRequest  true  "Reminder"
// @Success      200   {object}  reminderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reminders/{id} [put]
func (h *ReminderHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req reminderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	r, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toReminderResponse(r, h.now()))
}

// Delete handles DELETE /api/reminders/:id.
//
// @Summary      Delete a reminder
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  errorResponse
// @Router       /api/reminders/{id} [delete]
func (h *ReminderHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "reminder deleted")
}

// Complete handles POST /api/reminders/:id/complete.
//
// @Summary      Complete a reminder
// @Description  Recurring reminders return the next occurrence as well. Completing twice is a no-op.
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  completeReminderResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reminders/{id}/complete [post]
func (h *ReminderHandler) Complete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	res, err := h.service.Complete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	now := h.now()
	return respond(c, http.StatusOK, completeReminderResponse{
		Completed: toReminderResponse(res.Completed, now),
		Next:      toReminderResponse(res.Next, now),
	})
}

// Reopen handles POST /api/reminders/:id/reopen.
//
// @Summary      Reopen a reminder
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  reminderResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reminders/{id}/reopen [post]
func (h *ReminderHandler) Reopen(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	r, err := h.service.Reopen(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toReminderResponse(r, h.now()))
}

