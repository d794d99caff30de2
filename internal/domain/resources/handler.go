package resources

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrm/hrm/internal/platform/api"
	"github.com/hrm/hrm/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	r := g.Group("/resources")
	r.GET("/inventory", h.ListInventory)
	r.POST("/inventory", h.UpsertInventory)
	r.GET("/staffing", h.ListStaffing)
	r.POST("/staffing", h.UpsertStaffing)
	r.GET("/capacity", h.ListBedCapacity)
	r.POST("/capacity", h.UpsertBedCapacity)
}

type inventoryListResponse struct {
	api.Response
	LowStockCount int `json:"low_stock_count"`
}

func (h *Handler) ListInventory(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := InventoryFilter{
		Category: c.QueryParam("category"),
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	}
	lowOnly := c.QueryParam("low_stock") == "true"

	items, lowCount, err := h.svc.ListInventory(c.Request().Context(), f, lowOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inventoryListResponse{
		Response:      api.Response{Success: true, Data: items},
		LowStockCount: lowCount,
	})
}

func (h *Handler) UpsertInventory(c echo.Context) error {
	var item InventoryItem
	if err := c.Bind(&item); err != nil {
		return api.Validation(err.Error())
	}
	if err := c.Validate(&item); err != nil {
		return err
	}
	saved, err := h.svc.UpsertInventory(c.Request().Context(), &item)
	if err != nil {
		return err
	}
	return api.OKMessage(c, "Inventory updated", saved)
}

func (h *Handler) ListStaffing(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := StaffingFilter{
		Department: c.QueryParam("department"),
		Shift:      c.QueryParam("shift"),
		Limit:      pg.Limit,
		Offset:     pg.Offset,
	}
	recs, err := h.svc.ListStaffing(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return api.OK(c, recs)
}

func (h *Handler) UpsertStaffing(c echo.Context) error {
	var rec StaffingRecord
	if err := c.Bind(&rec); err != nil {
		return api.Validation(err.Error())
	}
	if err := c.Validate(&rec); err != nil {
		return err
	}
	saved, err := h.svc.UpsertStaffing(c.Request().Context(), &rec)
	if err != nil {
		return err
	}
	return api.OKMessage(c, "Staffing data updated", saved)
}

type bedCapacityListResponse struct {
	api.Response
	TotalAvailable int `json:"total_available"`
}

func (h *Handler) ListBedCapacity(c echo.Context) error {
	pg := pagination.FromContext(c)
	recs, totalAvailable, err := h.svc.ListBedCapacity(c.Request().Context(), c.QueryParam("ward_type"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bedCapacityListResponse{
		Response:       api.Response{Success: true, Data: recs},
		TotalAvailable: totalAvailable,
	})
}

func (h *Handler) UpsertBedCapacity(c echo.Context) error {
	var rec BedCapacityRecord
	if err := c.Bind(&rec); err != nil {
		return api.Validation(err.Error())
	}
	if err := c.Validate(&rec); err != nil {
		return err
	}
	saved, err := h.svc.UpsertBedCapacity(c.Request().Context(), &rec)
	if err != nil {
		return err
	}
	return api.OKMessage(c, "Bed capacity updated", saved)
}
