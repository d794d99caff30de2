package procurement

import (
	"net/http"
	"time"

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
	p := g.Group("/procurement")
	p.GET("/orders", h.ListOrders)
	p.GET("/orders/:order_id", h.GetOrder)
	p.POST("/orders", h.CreateOrder)
	p.PATCH("/orders/:order_id", h.UpdateOrderStatus)
	p.GET("/suppliers", h.ListSuppliers)
	p.POST("/suppliers", h.AddSupplier)
}

func (h *Handler) ListOrders(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := OrderFilter{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	}
	summaries, err := h.svc.ListOrders(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return api.OK(c, summaries)
}

func (h *Handler) GetOrder(c echo.Context) error {
	detail, err := h.svc.GetOrder(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return err
	}
	return api.OK(c, detail)
}

type createOrderRequest struct {
	SupplierID       string      `json:"supplier_id"`
	Items            []OrderItem `json:"items" validate:"omitempty,dive"`
	Priority         string      `json:"priority" validate:"omitempty,oneof=urgent normal low"`
	RequestedBy      string      `json:"requested_by"`
	ExpectedDelivery *time.Time  `json:"expected_delivery"`
}

type createOrderResponse struct {
	api.Response
	OrderID string `json:"order_id"`
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return api.Validation(err.Error())
	}
	if req.SupplierID == "" || len(req.Items) == 0 {
		return api.Validation("supplier_id and items are required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.svc.CreateOrder(c.Request().Context(), &PurchaseOrder{
		SupplierID:       req.SupplierID,
		Items:            req.Items,
		Priority:         req.Priority,
		RequestedBy:      req.RequestedBy,
		ExpectedDelivery: req.ExpectedDelivery,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createOrderResponse{
		Response: api.Response{Success: true, Message: "Purchase order created", Data: order},
		OrderID:  order.OrderID,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return api.Validation(err.Error())
	}
	order, err := h.svc.UpdateOrderStatus(c.Request().Context(), c.Param("order_id"), req.Status)
	if err != nil {
		return err
	}
	return api.OKMessage(c, "Order "+order.Status, order)
}

func (h *Handler) ListSuppliers(c echo.Context) error {
	pg := pagination.FromContext(c)
	suppliers, err := h.svc.ListSuppliers(c.Request().Context(), c.QueryParam("item_type"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return api.OK(c, suppliers)
}

type addSupplierRequest struct {
	SupplierID      string   `json:"supplier_id"`
	Name            string   `json:"name"`
	ContactPerson   string   `json:"contact_person"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email" validate:"omitempty,email"`
	ItemsSupplied   []string `json:"items_supplied"`
	Rating          int      `json:"rating" validate:"omitempty,min=1,max=5"`
	DeliveryTimeAvg float64  `json:"delivery_time_avg"`
	// Pointer so an omitted field defaults to active while an explicit
	// false deactivates the supplier.
	IsActive *bool `json:"is_active"`
}

func (h *Handler) AddSupplier(c echo.Context) error {
	var req addSupplierRequest
	if err := c.Bind(&req); err != nil {
		return api.Validation(err.Error())
	}
	if req.SupplierID == "" || req.Name == "" || req.ContactPerson == "" || req.Phone == "" || req.Email == "" {
		return api.Validation("All supplier details are required")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sup := &Supplier{
		SupplierID:      req.SupplierID,
		Name:            req.Name,
		ContactPerson:   req.ContactPerson,
		Phone:           req.Phone,
		Email:           req.Email,
		ItemsSupplied:   req.ItemsSupplied,
		Rating:          req.Rating,
		DeliveryTimeAvg: req.DeliveryTimeAvg,
		IsActive:        true,
	}
	if req.IsActive != nil {
		sup.IsActive = *req.IsActive
	}

	saved, err := h.svc.AddSupplier(c.Request().Context(), sup)
	if err != nil {
		return err
	}
	return api.Created(c, "Supplier added", saved)
}
