package procurement

import (
	"time"

	"github.com/google/uuid"
)

// Purchase order statuses. Approval is the only transition with a side
// effect; the rest are free-form bookkeeping.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusOrdered   = "ordered"
	StatusDelivered = "delivered"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether s is a known purchase order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusOrdered, StatusDelivered, StatusRejected:
		return true
	}
	return false
}

// OrderItem is one line of a purchase order. Location is optional; when set
// it pins the approval stock increment to a single inventory row.
type OrderItem struct {
	ItemName   string  `json:"item_name" validate:"required"`
	Quantity   int     `json:"quantity" validate:"gt=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
	TotalPrice float64 `json:"total_price"`
	Location   string  `json:"location,omitempty" validate:"omitempty,oneof=pharmacy store ward"`
}

// PurchaseOrder is a request to buy inventory from a supplier. order_id is
// the human-facing key (PO-2024-NNN, sequence-backed); id is the row key.
type PurchaseOrder struct {
	ID               uuid.UUID   `json:"id"`
	OrderID          string      `json:"order_id"`
	SupplierID       string      `json:"supplier_id" validate:"required"`
	Items            []OrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount      float64     `json:"total_amount"`
	Status           string      `json:"status"`
	Priority         string      `json:"priority" validate:"omitempty,oneof=urgent normal low"`
	RequestedBy      string      `json:"requested_by"`
	RequestedDate    time.Time   `json:"requested_date"`
	ExpectedDelivery *time.Time  `json:"expected_delivery,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// OrderSummary is the list projection with the supplier's display name
// resolved ("Unknown" when the supplier record is missing).
type OrderSummary struct {
	OrderID       string    `json:"order_id"`
	SupplierName  string    `json:"supplier_name"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	ItemsCount    int       `json:"items_count"`
	RequestedDate time.Time `json:"requested_date"`
	Priority      string    `json:"priority"`
}

// OrderDetail is the single-order projection with the full supplier record
// attached, or null when the supplier no longer exists.
type OrderDetail struct {
	OrderID          string      `json:"order_id"`
	Items            []OrderItem `json:"items"`
	TotalAmount      float64     `json:"total_amount"`
	Status           string      `json:"status"`
	Priority         string      `json:"priority"`
	RequestedBy      string      `json:"requested_by"`
	RequestedDate    time.Time   `json:"requested_date"`
	ExpectedDelivery *time.Time  `json:"expected_delivery,omitempty"`
	Supplier         *Supplier   `json:"supplier"`
}

// Supplier is a vendor in the directory. supplier_id is the caller-assigned
// unique key referenced by purchase orders.
type Supplier struct {
	ID              uuid.UUID `json:"id"`
	SupplierID      string    `json:"supplier_id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	ContactPerson   string    `json:"contact_person" validate:"required"`
	Phone           string    `json:"phone" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	ItemsSupplied   []string  `json:"items_supplied"`
	Rating          int       `json:"rating" validate:"omitempty,min=1,max=5"`
	DeliveryTimeAvg float64   `json:"delivery_time_avg"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// SupplierSummary is the directory projection exposed on list calls.
type SupplierSummary struct {
	SupplierID      string   `json:"supplier_id"`
	Name            string   `json:"name"`
	ContactPerson   string   `json:"contact_person"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	ItemsSupplied   []string `json:"items_supplied"`
	Rating          int      `json:"rating"`
	AvgDeliveryDays float64  `json:"avg_delivery_days"`
}
