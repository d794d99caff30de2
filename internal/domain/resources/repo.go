package resources

import (
	"context"
	"errors"
)

// Increment errors surfaced by InventoryRepository.IncrementStock. The
// procurement service maps these onto line-level validation failures.
var (
	ErrItemNotFound  = errors.New("inventory item not found")
	ErrAmbiguousItem = errors.New("inventory item name matches multiple locations")
)

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	Category string
	Limit    int
	Offset   int
}

type InventoryRepository interface {
	List(ctx context.Context, f InventoryFilter) ([]*InventoryItem, error)
	// Upsert inserts the item or, when (item_name, location) already exists,
	// updates the existing row in place and refreshes last_updated.
	Upsert(ctx context.Context, item *InventoryItem) (*InventoryItem, error)
	// IncrementStock adds qty to the item's current stock. With an empty
	// location the item is matched by name alone; zero matches return
	// ErrItemNotFound and multiple matches ErrAmbiguousItem.
	IncrementStock(ctx context.Context, itemName, location string, qty int) error
}

// StaffingFilter narrows staffing listings.
type StaffingFilter struct {
	Department string
	Shift      string
	Limit      int
	Offset     int
}

type StaffingRepository interface {
	List(ctx context.Context, f StaffingFilter) ([]*StaffingRecord, error)
	// Upsert is keyed on (staff_type, department, shift).
	Upsert(ctx context.Context, rec *StaffingRecord) (*StaffingRecord, error)
}

type BedCapacityRepository interface {
	List(ctx context.Context, wardType string, limit, offset int) ([]*BedCapacityRecord, error)
	// Upsert is keyed on ward_type.
	Upsert(ctx context.Context, rec *BedCapacityRecord) (*BedCapacityRecord, error)
}
