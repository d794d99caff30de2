package resources

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockInventoryRepo struct {
	items map[string]*InventoryItem // keyed item_name|location
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{items: make(map[string]*InventoryItem)}
}

func invKey(name, location string) string { return name + "|" + location }

func (m *mockInventoryRepo) List(_ context.Context, f InventoryFilter) ([]*InventoryItem, error) {
	result := make([]*InventoryItem, 0)
	for _, it := range m.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		result = append(result, it)
	}
	return result, nil
}

func (m *mockInventoryRepo) Upsert(_ context.Context, item *InventoryItem) (*InventoryItem, error) {
	key := invKey(item.ItemName, item.Location)
	if existing, ok := m.items[key]; ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		if item.ExpiryDate == nil {
			item.ExpiryDate = existing.ExpiryDate
		}
	} else {
		item.ID = uuid.New()
		item.CreatedAt = time.Now()
	}
	item.LastUpdated = time.Now()
	m.items[key] = item
	return item, nil
}

func (m *mockInventoryRepo) IncrementStock(_ context.Context, itemName, location string, qty int) error {
	matched := 0
	var target *InventoryItem
	for _, it := range m.items {
		if it.ItemName != itemName {
			continue
		}
		if location != "" && it.Location != location {
			continue
		}
		matched++
		target = it
	}
	if matched == 0 {
		return ErrItemNotFound
	}
	if matched > 1 {
		return ErrAmbiguousItem
	}
	target.CurrentStock += qty
	target.LastUpdated = time.Now()
	return nil
}

type mockStaffingRepo struct {
	recs map[string]*StaffingRecord // keyed staff_type|department|shift
}

func newMockStaffingRepo() *mockStaffingRepo {
	return &mockStaffingRepo{recs: make(map[string]*StaffingRecord)}
}

func (m *mockStaffingRepo) List(_ context.Context, f StaffingFilter) ([]*StaffingRecord, error) {
	result := make([]*StaffingRecord, 0)
	for _, rec := range m.recs {
		if f.Department != "" && rec.Department != f.Department {
			continue
		}
		if f.Shift != "" && rec.Shift != f.Shift {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (m *mockStaffingRepo) Upsert(_ context.Context, rec *StaffingRecord) (*StaffingRecord, error) {
	key := strings.Join([]string{rec.StaffType, rec.Department, rec.Shift}, "|")
	if existing, ok := m.recs[key]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = uuid.New()
		rec.CreatedAt = time.Now()
	}
	rec.LastUpdated = time.Now()
	m.recs[key] = rec
	return rec, nil
}

type mockBedCapacityRepo struct {
	recs map[string]*BedCapacityRecord // keyed ward_type
}

func newMockBedCapacityRepo() *mockBedCapacityRepo {
	return &mockBedCapacityRepo{recs: make(map[string]*BedCapacityRecord)}
}

func (m *mockBedCapacityRepo) List(_ context.Context, wardType string, limit, offset int) ([]*BedCapacityRecord, error) {
	result := make([]*BedCapacityRecord, 0)
	for _, rec := range m.recs {
		if wardType != "" && rec.WardType != wardType {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (m *mockBedCapacityRepo) Upsert(_ context.Context, rec *BedCapacityRecord) (*BedCapacityRecord, error) {
	if existing, ok := m.recs[rec.WardType]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = uuid.New()
		rec.CreatedAt = time.Now()
	}
	rec.LastUpdated = time.Now()
	m.recs[rec.WardType] = rec
	return rec, nil
}

func newTestService() (*Service, *mockInventoryRepo, *mockStaffingRepo, *mockBedCapacityRepo) {
	inv := newMockInventoryRepo()
	staff := newMockStaffingRepo()
	beds := newMockBedCapacityRepo()
	return NewService(inv, staff, beds), inv, staff, beds
}

// -- Inventory --

func TestListInventoryAnnotatesStatus(t *testing.T) {
	svc, inv, _, _ := newTestService()
	ctx := context.Background()

	inv.items[invKey("Paracetamol", "pharmacy")] = &InventoryItem{
		ItemName: "Paracetamol", Category: "medicine", CurrentStock: 5, ReorderLevel: 20, Location: "pharmacy",
	}
	inv.items[invKey("Gloves", "store")] = &InventoryItem{
		ItemName: "Gloves", Category: "ppe", CurrentStock: 500, ReorderLevel: 100, Location: "store",
	}

	items, lowCount, err := svc.ListInventory(ctx, InventoryFilter{}, false)
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if lowCount != 1 {
		t.Errorf("low_stock_count = %d, want 1", lowCount)
	}
	for _, it := range items {
		switch it.ItemName {
		case "Paracetamol":
			if it.Status != StockStatusLow {
				t.Errorf("Paracetamol status = %q, want low", it.Status)
			}
		case "Gloves":
			if it.Status != StockStatusNormal {
				t.Errorf("Gloves status = %q, want normal", it.Status)
			}
		}
	}
}

func TestListInventoryLowStockOnly(t *testing.T) {
	svc, inv, _, _ := newTestService()
	ctx := context.Background()

	inv.items[invKey("Paracetamol", "pharmacy")] = &InventoryItem{
		ItemName: "Paracetamol", CurrentStock: 5, ReorderLevel: 20, Location: "pharmacy",
	}
	inv.items[invKey("Masks", "ward")] = &InventoryItem{
		ItemName: "Masks", CurrentStock: 10, ReorderLevel: 50, Location: "ward",
	}
	inv.items[invKey("Gloves", "store")] = &InventoryItem{
		ItemName: "Gloves", CurrentStock: 500, ReorderLevel: 100, Location: "store",
	}

	items, lowCount, err := svc.ListInventory(ctx, InventoryFilter{}, true)
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 low items, got %d", len(items))
	}
	if lowCount != 2 {
		t.Errorf("low_stock_count = %d, want 2", lowCount)
	}
	for _, it := range items {
		if it.Status != StockStatusLow {
			t.Errorf("item %s status = %q, want low", it.ItemName, it.Status)
		}
	}
}

func TestListInventoryCategoryFilter(t *testing.T) {
	svc, inv, _, _ := newTestService()
	ctx := context.Background()

	inv.items[invKey("Paracetamol", "pharmacy")] = &InventoryItem{
		ItemName: "Paracetamol", Category: "medicine", Location: "pharmacy",
	}
	inv.items[invKey("Gloves", "store")] = &InventoryItem{
		ItemName: "Gloves", Category: "ppe", Location: "store",
	}

	items, _, err := svc.ListInventory(ctx, InventoryFilter{Category: "medicine"}, false)
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(items) != 1 || items[0].ItemName != "Paracetamol" {
		t.Fatalf("expected only Paracetamol, got %d items", len(items))
	}
}

func TestUpsertInventoryTwiceKeepsOneRecord(t *testing.T) {
	svc, inv, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.UpsertInventory(ctx, &InventoryItem{
		ItemName: "Syringes", Category: "supplies", CurrentStock: 100, Unit: "boxes",
		ReorderLevel: 20, Location: "store",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := svc.UpsertInventory(ctx, &InventoryItem{
		ItemName: "Syringes", Category: "supplies", CurrentStock: 250, Unit: "boxes",
		ReorderLevel: 20, Location: "store",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(inv.items) != 1 {
		t.Fatalf("expected 1 record after two upserts, got %d", len(inv.items))
	}
	if second.ID != first.ID {
		t.Error("second upsert created a new record instead of updating")
	}
	if second.CurrentStock != 250 {
		t.Errorf("current_stock = %d, want 250", second.CurrentStock)
	}
	if second.Status != StockStatusNormal {
		t.Errorf("status = %q, want normal", second.Status)
	}
}

// -- Staffing --

func TestListStaffingFilters(t *testing.T) {
	svc, _, staff, _ := newTestService()
	ctx := context.Background()

	staff.recs["nurse|icu|night"] = &StaffingRecord{StaffType: "nurse", Department: "icu", Shift: "night", CurrentCount: 12}
	staff.recs["nurse|icu|morning"] = &StaffingRecord{StaffType: "nurse", Department: "icu", Shift: "morning", CurrentCount: 18}
	staff.recs["doctor|emergency|night"] = &StaffingRecord{StaffType: "doctor", Department: "emergency", Shift: "night", CurrentCount: 4}

	recs, err := svc.ListStaffing(ctx, StaffingFilter{Department: "icu", Shift: "night"})
	if err != nil {
		t.Fatalf("ListStaffing: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].StaffType != "nurse" || recs[0].CurrentCount != 12 {
		t.Errorf("unexpected record: %+v", recs[0])
	}
}

func TestUpsertStaffingKeyedOnTriple(t *testing.T) {
	svc, _, staff, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.UpsertStaffing(ctx, &StaffingRecord{
		StaffType: "nurse", Department: "icu", Shift: "night", CurrentCount: 10,
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.UpsertStaffing(ctx, &StaffingRecord{
		StaffType: "nurse", Department: "icu", Shift: "night", CurrentCount: 14,
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if _, err := svc.UpsertStaffing(ctx, &StaffingRecord{
		StaffType: "nurse", Department: "icu", Shift: "morning", CurrentCount: 20,
	}); err != nil {
		t.Fatalf("third upsert: %v", err)
	}

	if len(staff.recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(staff.recs))
	}
	if staff.recs["nurse|icu|night"].CurrentCount != 14 {
		t.Errorf("night count = %d, want 14", staff.recs["nurse|icu|night"].CurrentCount)
	}
}

// -- Bed capacity --

func TestListBedCapacityComputesOccupancyAndTotal(t *testing.T) {
	svc, _, _, beds := newTestService()
	ctx := context.Background()

	beds.recs["general"] = &BedCapacityRecord{WardType: "general", TotalBeds: 250, OccupiedBeds: 185, AvailableBeds: 65}
	beds.recs["icu"] = &BedCapacityRecord{WardType: "icu", TotalBeds: 40, OccupiedBeds: 36, AvailableBeds: 4}

	recs, totalAvailable, err := svc.ListBedCapacity(ctx, "", 50, 0)
	if err != nil {
		t.Fatalf("ListBedCapacity: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if totalAvailable != 69 {
		t.Errorf("total_available = %d, want 69", totalAvailable)
	}
	for _, rec := range recs {
		switch rec.WardType {
		case "general":
			if rec.OccupancyRate != 74 {
				t.Errorf("general occupancy = %d, want 74", rec.OccupancyRate)
			}
		case "icu":
			if rec.OccupancyRate != 90 {
				t.Errorf("icu occupancy = %d, want 90", rec.OccupancyRate)
			}
		}
	}
}

func TestListBedCapacityWardFilter(t *testing.T) {
	svc, _, _, beds := newTestService()
	ctx := context.Background()

	beds.recs["general"] = &BedCapacityRecord{WardType: "general", TotalBeds: 250, OccupiedBeds: 100, AvailableBeds: 150}
	beds.recs["isolation"] = &BedCapacityRecord{WardType: "isolation", TotalBeds: 10, OccupiedBeds: 2, AvailableBeds: 8}

	recs, totalAvailable, err := svc.ListBedCapacity(ctx, "isolation", 50, 0)
	if err != nil {
		t.Fatalf("ListBedCapacity: %v", err)
	}
	if len(recs) != 1 || recs[0].WardType != "isolation" {
		t.Fatalf("expected only isolation ward, got %d records", len(recs))
	}
	if totalAvailable != 8 {
		t.Errorf("total_available = %d, want 8", totalAvailable)
	}
}

func TestUpsertBedCapacityKeyedOnWardType(t *testing.T) {
	svc, _, _, beds := newTestService()
	ctx := context.Background()

	first, err := svc.UpsertBedCapacity(ctx, &BedCapacityRecord{
		WardType: "icu", TotalBeds: 40, OccupiedBeds: 30, AvailableBeds: 10,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.UpsertBedCapacity(ctx, &BedCapacityRecord{
		WardType: "icu", TotalBeds: 40, OccupiedBeds: 36, AvailableBeds: 4,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(beds.recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(beds.recs))
	}
	if second.ID != first.ID {
		t.Error("upsert created a second record for the same ward")
	}
	if second.OccupancyRate != 90 {
		t.Errorf("occupancy = %d, want 90", second.OccupancyRate)
	}
}
