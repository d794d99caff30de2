package procurement

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrm/hrm/internal/domain/resources"
	"github.com/hrm/hrm/internal/platform/api"
	"github.com/hrm/hrm/internal/platform/db"
)

// Service implements purchase order and supplier logic. The approval side
// effect (stock increments) runs through the injected Runner so the status
// change and every increment commit or roll back together.
type Service struct {
	orders    OrderRepository
	suppliers SupplierRepository
	stock     StockAdjuster
	tx        db.Runner
}

func NewService(orders OrderRepository, suppliers SupplierRepository, stock StockAdjuster, tx db.Runner) *Service {
	return &Service{orders: orders, suppliers: suppliers, stock: stock, tx: tx}
}

// ListOrders returns order summaries newest first with supplier names
// resolved in one batched lookup.
func (s *Service) ListOrders(ctx context.Context, f OrderFilter) ([]*OrderSummary, error) {
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if !seen[o.SupplierID] {
			seen[o.SupplierID] = true
			ids = append(ids, o.SupplierID)
		}
	}
	names, err := s.suppliers.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]*OrderSummary, 0, len(orders))
	for _, o := range orders {
		name, ok := names[o.SupplierID]
		if !ok {
			name = "Unknown"
		}
		summaries = append(summaries, &OrderSummary{
			OrderID:       o.OrderID,
			SupplierName:  name,
			TotalAmount:   o.TotalAmount,
			Status:        o.Status,
			ItemsCount:    len(o.Items),
			RequestedDate: o.RequestedDate,
			Priority:      o.Priority,
		})
	}
	return summaries, nil
}

// GetOrder returns the full order with its supplier attached, or null when
// the supplier record has since disappeared.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*OrderDetail, error) {
	o, err := s.orders.GetByOrderID(ctx, orderID)
	if errors.Is(err, ErrOrderNotFound) {
		return nil, api.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}

	supplier, err := s.suppliers.GetBySupplierID(ctx, o.SupplierID)
	if errors.Is(err, ErrSupplierNotFound) {
		supplier = nil
	} else if err != nil {
		return nil, err
	}

	return &OrderDetail{
		OrderID:          o.OrderID,
		Items:            o.Items,
		TotalAmount:      o.TotalAmount,
		Status:           o.Status,
		Priority:         o.Priority,
		RequestedBy:      o.RequestedBy,
		RequestedDate:    o.RequestedDate,
		ExpectedDelivery: o.ExpectedDelivery,
		Supplier:         supplier,
	}, nil
}

// CreateOrder prices each line, totals the order and persists it with a
// sequence-backed order id. Defaults: status pending, priority normal,
// requested_by "Admin".
func (s *Service) CreateOrder(ctx context.Context, o *PurchaseOrder) (*PurchaseOrder, error) {
	if o.SupplierID == "" || len(o.Items) == 0 {
		return nil, api.Validation("supplier_id and items are required")
	}

	total := 0.0
	for i := range o.Items {
		o.Items[i].TotalPrice = float64(o.Items[i].Quantity) * o.Items[i].UnitPrice
		total += o.Items[i].TotalPrice
	}
	o.TotalAmount = total

	o.Status = StatusPending
	if o.Priority == "" {
		o.Priority = "normal"
	}
	if o.RequestedBy == "" {
		o.RequestedBy = "Admin"
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus writes the new status. Transitioning to approved also
// increments inventory for every line inside one transaction; any line that
// cannot be matched aborts the whole request, status change included.
// Re-approving an approved order is rejected to keep the increment from
// running twice.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, status string) (*PurchaseOrder, error) {
	if status == "" {
		return nil, api.Validation("status is required")
	}
	if !ValidStatus(status) {
		return nil, api.Validation(fmt.Sprintf("status must be one of: pending, approved, ordered, delivered, rejected; got %q", status))
	}

	if status != StatusApproved {
		o, err := s.orders.UpdateStatus(ctx, orderID, status)
		if errors.Is(err, ErrOrderNotFound) {
			return nil, api.NotFound("Order not found")
		}
		return o, err
	}

	var updated *PurchaseOrder
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		// The guarded update wins the row or refuses it; a separate
		// check-then-act read would let two concurrent approvals both
		// pass and double the increments.
		o, err := s.orders.Approve(ctx, orderID)
		if errors.Is(err, ErrOrderNotFound) {
			existing, getErr := s.orders.GetByOrderID(ctx, orderID)
			if getErr == nil && existing.Status == StatusApproved {
				return api.Conflict(fmt.Sprintf("order %s is already approved", orderID))
			}
			if getErr != nil && !errors.Is(getErr, ErrOrderNotFound) {
				return getErr
			}
			return api.NotFound("Order not found")
		}
		if err != nil {
			return err
		}
		for i, item := range o.Items {
			if err := s.stock.IncrementStock(ctx, item.ItemName, item.Location, item.Quantity); err != nil {
				return incrementError(i, item, err)
			}
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// incrementError translates stock increment failures into line-level
// validation errors so the caller learns which item blocked the approval.
// Unexpected store errors pass through untouched.
func incrementError(idx int, item OrderItem, err error) error {
	switch {
	case errors.Is(err, resources.ErrItemNotFound):
		return api.Validation(fmt.Sprintf("cannot approve: item %d (%s) has no matching inventory record", idx+1, item.ItemName))
	case errors.Is(err, resources.ErrAmbiguousItem):
		return api.Validation(fmt.Sprintf("cannot approve: item %d (%s) matches multiple inventory locations; set a location on the order line", idx+1, item.ItemName))
	}
	return err
}

// ListSuppliers returns the directory projection, optionally narrowed to
// suppliers carrying itemType.
func (s *Service) ListSuppliers(ctx context.Context, itemType string, limit, offset int) ([]*SupplierSummary, error) {
	suppliers, err := s.suppliers.List(ctx, itemType, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*SupplierSummary, 0, len(suppliers))
	for _, sup := range suppliers {
		out = append(out, &SupplierSummary{
			SupplierID:      sup.SupplierID,
			Name:            sup.Name,
			ContactPerson:   sup.ContactPerson,
			Phone:           sup.Phone,
			Email:           sup.Email,
			ItemsSupplied:   sup.ItemsSupplied,
			Rating:          sup.Rating,
			AvgDeliveryDays: sup.DeliveryTimeAvg,
		})
	}
	return out, nil
}

// AddSupplier inserts a supplier with directory defaults (rating 3, no
// delivery history). A taken supplier_id is a conflict, not a new row.
func (s *Service) AddSupplier(ctx context.Context, sup *Supplier) (*Supplier, error) {
	if sup.ItemsSupplied == nil {
		sup.ItemsSupplied = []string{}
	}
	if sup.Rating == 0 {
		sup.Rating = 3
	}

	err := s.suppliers.Create(ctx, sup)
	if errors.Is(err, ErrDuplicateSupplier) {
		return nil, api.Conflict(fmt.Sprintf("supplier %s already exists", sup.SupplierID))
	}
	if err != nil {
		return nil, err
	}
	return sup, nil
}
