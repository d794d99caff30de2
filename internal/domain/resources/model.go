package resources

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Inventory stock status values computed at read time.
const (
	StockStatusLow      = "low"
	StockStatusNormal = "normal"
)

// InventoryItem is one stocked item at one location. The pair
// (item_name, location) is the natural key; upserts are keyed on it.
type InventoryItem struct {
	ID           uuid.UUID  `json:"id"`
	ItemName     string     `json:"item_name" validate:"required"`
	Category     string     `json:"category" validate:"required,oneof=medicine equipment ppe supplies"`
	CurrentStock int        `json:"current_stock" validate:"gte=0"`
	Unit         string     `json:"unit" validate:"required,oneof=pieces boxes bottles"`
	ReorderLevel int        `json:"reorder_level" validate:"gte=0"`
	Location     string     `json:"location" validate:"required,oneof=pharmacy store ward"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
	CreatedAt    time.Time  `json:"created_at"`

	// Status is derived from stock levels on every read and never stored.
	Status string `json:"status"`
}

// StockStatus reports whether the item is below its reorder level.
func (i *InventoryItem) StockStatus() string {
	if i.CurrentStock < i.ReorderLevel {
		return StockStatusLow
	}
	return StockStatusNormal
}

// StaffingRecord is the headcount for one staff type in one department on one
// shift. The triple (staff_type, department, shift) is the natural key.
type StaffingRecord struct {
	ID             uuid.UUID `json:"id"`
	StaffType      string    `json:"staff_type" validate:"required,oneof=doctor nurse support_staff"`
	CurrentCount   int       `json:"current_count" validate:"gte=0"`
	AvailableCount int       `json:"available_count" validate:"gte=0"`
	OnShiftCount   int       `json:"on_shift_count" validate:"gte=0"`
	OnLeaveCount   int       `json:"on_leave_count" validate:"gte=0"`
	Department     string    `json:"department" validate:"required"`
	Shift          string    `json:"shift" validate:"required,oneof=morning evening night"`
	LastUpdated    time.Time `json:"last_updated"`
	CreatedAt      time.Time `json:"created_at"`
}

// BedCapacityRecord is the bed census for one ward type. ward_type is unique.
// occupied_beds cannot exceed total_beds and total_beds must be at least 1,
// both enforced at the write boundary so occupancy math never divides by zero.
type BedCapacityRecord struct {
	ID            uuid.UUID `json:"id"`
	WardType      string    `json:"ward_type" validate:"required,oneof=general icu emergency isolation"`
	TotalBeds     int       `json:"total_beds" validate:"gte=1"`
	OccupiedBeds  int       `json:"occupied_beds" validate:"gte=0,ltefield=TotalBeds"`
	AvailableBeds int       `json:"available_beds" validate:"gte=0"`
	ReservedBeds  int       `json:"reserved_beds" validate:"gte=0"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `json:"created_at"`

	// OccupancyRate is derived on reads, rounded to the nearest percent.
	// No omitempty: an empty ward still reports its zero rate.
	OccupancyRate int `json:"occupancy_rate"`
}

// Occupancy returns the occupied share of total beds as a rounded percentage.
func (b *BedCapacityRecord) Occupancy() int {
	if b.TotalBeds <= 0 {
		return 0
	}
	return int(math.Round(float64(b.OccupiedBeds) / float64(b.TotalBeds) * 100))
}
