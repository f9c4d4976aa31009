package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/api/metrics"
	"github.com/boxwise/inventory/internal/core/ports"
)

// maxImportSize caps the CSV upload accepted by Import.
const maxImportSize = 5 << 20

// ImportBodyLimit caps the whole multipart request of Import, leaving room for
// the form framing around a maxImportSize file.
const ImportBodyLimit = "6M"

// ItemHandler serves items, loans and the CSV transfer endpoints.
type ItemHandler struct {
	service  ports.ItemService
	transfer ports.TransferService
}

func NewItemHandler(service ports.ItemService, transfer ports.TransferService) *ItemHandler {
	return &ItemHandler{service: service, transfer: transfer}
}

// List handles GET /api/items.
//
// @Summary      List items
// @Description  Paginated, filterable item list. Archived items are only listed with archived=true.
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        q                    query     string  false  "Search name, description, asset ID and serial number"
// @Param        location_id          query     string  false  "Location filter"
// @Param        include_sublocations query     bool    false  "Also match items in descendant locations"
// @Param        category_id          query     string  false  "Category filter"
// @Param        label_id             query     string  false  "Label filter"
// @Param        archived             query     bool    false  "List archived items instead of active ones"
// @Param        on_loan              query     bool    false  "Loan state filter"
// @Param        sort                 query     string  false  "name, created_at or updated_at"
// @Param        order                query     string  false  "asc or desc"
// @Param        page                 query     int     false  "Page number (default 1)"
// @Param        limit                query     int     false  "Page size (default 20, max 100)"
// @Success      200  {object}  itemListResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var in ports.ListItemsInput
	var order string
	err = echo.QueryParamsBinder(c).
		String("q", &in.Search).
		String("location_id", &in.LocationID).
		Bool("include_sublocations", &in.IncludeSubLocation).
		String("category_id", &in.CategoryID).
		String("label_id", &in.LabelID).
		Bool("archived", &in.Archived).
		String("sort", &order).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	// "sort" may carry a leading minus for descending order.
	if len(order) > 0 && order[0] == '-' {
		in.Desc, order = true, order[1:]
	}
	in.Sort = order
	if c.QueryParam("order") == "desc" {
		in.Desc = true
	}
	if raw := c.QueryParam("on_loan"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "on_loan must be true or false")
		}
		in.OnLoan = &v
	}

	page, err := h.service.List(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, itemListResponse{
		Items: page.Items,
		Pagination: paginationResponse{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	})
}

// Get handles GET /api/items/:id.
//
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  itemDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, itemDetailResponse{Item: d.Item, Breadcrumb: d.Breadcrumb})
}

// Create handles POST /api/items.
//
// @Summary      Create an item
// @Description  A blank asset_id is generated from the group sequence when auto-assignment is on.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      itemRequest  true  "Item"
// @Success      201   {object}  domain.Item
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse  "Plan item limit reached"
// @Router       /api/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req itemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.Create(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return err
	}
	metrics.ItemsCreatedTotal.WithLabelValues("api").Inc()
	return respond(c, http.StatusCreated, item)
}

// Update handles PUT /api/items/:id.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Item ID"
// @Param        body  body      itemRequest  true  "Item"
// @Success      200   {object}  domain.Item
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req itemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

// Delete handles DELETE /api/items/:id. The item's reminders go with it.
//
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  errorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "item deleted")
}

// Archive handles POST /api/items/:id/archive.
//
// @Summary      Archive an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  domain.Item
// @Failure      404  {object}  errorResponse
// @Router       /api/items/{id}/archive [post]
func (h *ItemHandler) Archive(c echo.Context) error {
	return h.setArchived(c, true)
}

// Unarchive handles POST /api/items/:id/unarchive.
//
// @Summary      Restore an archived item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  domain.Item
// @Failure      404  {object}  errorResponse
// @Router       /api/items/{id}/unarchive [post]
func (h *ItemHandler) Unarchive(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *ItemHandler) setArchived(c echo.Context, archived bool) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	item, err := h.service.SetArchived(c.Request().Context(), actor, c.Param("id"), archived)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

// Move handles POST /api/items/move.
//
// @Summary      Move items
// @Description  Moves several items to one location. Unknown ids are skipped.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      moveItemsRequest  true  "Items and destination"
// @Success      200   {object}  moveItemsResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/items/move [post]
func (h *ItemHandler) Move(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req moveItemsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	n, err := h.service.Move(c.Request().Context(), actor, req.ItemIDs, req.LocationID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, moveItemsResponse{Moved: n})
}

// Lend handles POST /api/items/:id/loan.
//
// @Summary      Lend an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Item ID"
// @Param        body  body      lendRequest  true  "Borrower"
// @Success      200   {object}  domain.Item
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse  "Item already on loan"
// @Router       /api/items/{id}/loan [post]
func (h *ItemHandler) Lend(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req lendRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.Lend(c.Request().Context(), actor, c.Param("id"), ports.LoanInput{
		Borrower: req.Borrower,
		DueAt:    req.DueAt.timePtr(),
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

// Return handles POST /api/items/:id/return.
//
// @Summary      Return a lent item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  domain.Item
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "Item is not on loan"
// @Router       /api/items/{id}/return [post]
func (h *ItemHandler) Return(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	item, err := h.service.Return(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, item)
}

// Export handles GET /api/items/export.
//
// @Summary      Export items as CSV
// @Tags         items
// @Produce      text/csv
// @Security     BearerAuth
// @Param        include_archived  query  bool  false  "Include archived items"
// @Success      200
// @Router       /api/items/export [get]
func (h *ItemHandler) Export(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var in ports.ExportInput
	if err := echo.QueryParamsBinder(c).Bool("include_archived", &in.IncludeArchived).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "include_archived must be true or false")
	}

	// Buffer so a failure halfway through still yields a proper error response.
	var buf bytes.Buffer
	if _, err := h.transfer.Export(c.Request().Context(), actor, &buf, in); err != nil {
		return err
	}
	name := fmt.Sprintf("boxwise-items-%s.csv", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Import handles POST /api/items/import.
//
// @Summary      Import items from CSV
// @Description  Rows are committed one by one. Missing locations, categories and labels are created.
// @Tags         items
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  ports.ImportReport
// @Failure      400   {object}  errorResponse
// @Router       /api/items/import [post]
func (h *ItemHandler) Import(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > maxImportSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds 5 MB")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file could not be read")
	}
	defer f.Close()

	report, err := h.transfer.Import(c.Request().Context(), actor, f)
	if err != nil {
		return err
	}
	metrics.ImportRowsTotal.WithLabelValues("imported").Add(float64(report.Imported))
	metrics.ImportRowsTotal.WithLabelValues("failed").Add(float64(report.Failed))
	metrics.ItemsCreatedTotal.WithLabelValues("import").Add(float64(report.Imported))
	return respond(c, http.StatusOK, report)
}
