package procurement

import (
	"context"
	"errors"
)

var (
	ErrOrderNotFound     = errors.New("purchase order not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrDuplicateSupplier = errors.New("supplier already exists")
)

// OrderFilter narrows purchase order listings.
type OrderFilter struct {
	Status   string
	Priority string
	Limit    int
	Offset   int
}

type OrderRepository interface {
	// List returns orders newest first.
	List(ctx context.Context, f OrderFilter) ([]*PurchaseOrder, error)
	GetByOrderID(ctx context.Context, orderID string) (*PurchaseOrder, error)
	// Create inserts the order and assigns its sequence-backed order_id.
	Create(ctx context.Context, o *PurchaseOrder) error
	// UpdateStatus sets the status and returns the updated order, or
	// ErrOrderNotFound.
	UpdateStatus(ctx context.Context, orderID, status string) (*PurchaseOrder, error)
	// Approve flips a not-yet-approved order to approved in one guarded
	// statement. ErrOrderNotFound covers both a missing order and one that
	// is already approved; callers tell the two apart.
	Approve(ctx context.Context, orderID string) (*PurchaseOrder, error)
}

type SupplierRepository interface {
	// List returns suppliers, optionally narrowed to those carrying itemType.
	List(ctx context.Context, itemType string, limit, offset int) ([]*Supplier, error)
	// NamesByIDs resolves supplier display names for the given supplier ids.
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	// GetBySupplierID returns the supplier or ErrSupplierNotFound.
	GetBySupplierID(ctx context.Context, supplierID string) (*Supplier, error)
	// Create inserts the supplier, or returns ErrDuplicateSupplier when the
	// supplier_id is already taken.
	Create(ctx context.Context, s *Supplier) error
}

// StockAdjuster is the slice of the inventory repository the approval side
// effect needs. Implemented by resources.InventoryRepository.
type StockAdjuster interface {
	IncrementStock(ctx context.Context, itemName, location string, qty int) error
}
