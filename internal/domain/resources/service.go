package resources

import (
	"context"
)

// Service implements the resource read/upsert logic on top of the
// repositories. Derived fields (stock status, occupancy rate) are computed
// here so repositories stay plain row mappers.
type Service struct {
	inventory InventoryRepository
	staffing  StaffingRepository
	beds      BedCapacityRepository
}

func NewService(inventory InventoryRepository, staffing StaffingRepository, beds BedCapacityRepository) *Service {
	return &Service{inventory: inventory, staffing: staffing, beds: beds}
}

// ListInventory returns items annotated with their stock status. When lowOnly
// is set only items below their reorder level are returned. The second return
// value is the number of low-stock items in the returned set.
func (s *Service) ListInventory(ctx context.Context, f InventoryFilter, lowOnly bool) ([]*InventoryItem, int, error) {
	items, err := s.inventory.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*InventoryItem, 0, len(items))
	lowCount := 0
	for _, it := range items {
		it.Status = it.StockStatus()
		if it.Status == StockStatusLow {
			lowCount++
		} else if lowOnly {
			continue
		}
		out = append(out, it)
	}
	return out, lowCount, nil
}

func (s *Service) UpsertInventory(ctx context.Context, item *InventoryItem) (*InventoryItem, error) {
	saved, err := s.inventory.Upsert(ctx, item)
	if err != nil {
		return nil, err
	}
	saved.Status = saved.StockStatus()
	return saved, nil
}

func (s *Service) ListStaffing(ctx context.Context, f StaffingFilter) ([]*StaffingRecord, error) {
	return s.staffing.List(ctx, f)
}

func (s *Service) UpsertStaffing(ctx context.Context, rec *StaffingRecord) (*StaffingRecord, error) {
	return s.staffing.Upsert(ctx, rec)
}

// ListBedCapacity annotates each ward with its occupancy rate and also
// returns the total available beds across the returned set.
func (s *Service) ListBedCapacity(ctx context.Context, wardType string, limit, offset int) ([]*BedCapacityRecord, int, error) {
	recs, err := s.beds.List(ctx, wardType, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	totalAvailable := 0
	for _, b := range recs {
		b.OccupancyRate = b.Occupancy()
		totalAvailable += b.AvailableBeds
	}
	return recs, totalAvailable, nil
}

func (s *Service) UpsertBedCapacity(ctx context.Context, rec *BedCapacityRecord) (*BedCapacityRecord, error) {
	saved, err := s.beds.Upsert(ctx, rec)
	if err != nil {
		return nil, err
	}
	saved.OccupancyRate = saved.Occupancy()
	return saved, nil
}
