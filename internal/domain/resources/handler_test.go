package resources

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hrm/hrm/internal/platform/api"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	return e
}

func TestUpsertInventoryHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"item_name":"Paracetamol","category":"medicine","current_stock":500,"unit":"boxes","reorder_level":50,"location":"pharmacy"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resources/inventory", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpsertInventory(c); err != nil {
		t.Fatalf("UpsertInventory: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    InventoryItem `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Message != "Inventory updated" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Data.Status != StockStatusNormal {
		t.Errorf("status = %q, want normal", resp.Data.Status)
	}
}

func TestUpsertInventoryRejectsBadCategory(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"item_name":"Paracetamol","category":"food","current_stock":10,"unit":"boxes","reorder_level":5,"location":"pharmacy"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resources/inventory", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.UpsertInventory(c)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
}

func TestUpsertInventoryRequiresNaturalKey(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"category":"medicine","current_stock":10,"unit":"boxes","reorder_level":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/resources/inventory", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.UpsertInventory(c)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "item_name") {
		t.Errorf("message %q should name the missing field", apiErr.Message)
	}
}

func TestListInventoryHandlerLowStock(t *testing.T) {
	svc, inv, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	inv.items[invKey("Paracetamol", "pharmacy")] = &InventoryItem{
		ItemName: "Paracetamol", Category: "medicine", CurrentStock: 5, ReorderLevel: 20, Location: "pharmacy",
	}
	inv.items[invKey("Gloves", "store")] = &InventoryItem{
		ItemName: "Gloves", Category: "ppe", CurrentStock: 500, ReorderLevel: 100, Location: "store",
	}

	req := httptest.NewRequest(http.MethodGet, "/api/resources/inventory?low_stock=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListInventory(c); err != nil {
		t.Fatalf("ListInventory: %v", err)
	}

	var resp struct {
		Success       bool            `json:"success"`
		Data          []InventoryItem `json:"data"`
		LowStockCount int             `json:"low_stock_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 low item, got %d", len(resp.Data))
	}
	if resp.LowStockCount != 1 {
		t.Errorf("low_stock_count = %d, want 1", resp.LowStockCount)
	}
}

func TestUpsertBedCapacityRejectsOverOccupancy(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"ward_type":"icu","total_beds":40,"occupied_beds":45,"available_beds":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/resources/capacity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.UpsertBedCapacity(c)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
}

func TestUpsertBedCapacityRejectsZeroTotal(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"ward_type":"icu","total_beds":0,"occupied_beds":0,"available_beds":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/resources/capacity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.UpsertBedCapacity(c)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
}

func TestListBedCapacityHandler(t *testing.T) {
	svc, _, _, beds := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	beds.recs["general"] = &BedCapacityRecord{WardType: "general", TotalBeds: 250, OccupiedBeds: 185, AvailableBeds: 65}

	req := httptest.NewRequest(http.MethodGet, "/api/resources/capacity", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListBedCapacity(c); err != nil {
		t.Fatalf("ListBedCapacity: %v", err)
	}

	var resp struct {
		Success        bool                `json:"success"`
		Data           []BedCapacityRecord `json:"data"`
		TotalAvailable int                 `json:"total_available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalAvailable != 65 {
		t.Errorf("total_available = %d, want 65", resp.TotalAvailable)
	}
	if len(resp.Data) != 1 || resp.Data[0].OccupancyRate != 74 {
		t.Errorf("occupancy_rate = %d, want 74", resp.Data[0].OccupancyRate)
	}
}

func TestUpsertStaffingHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"staff_type":"nurse","department":"icu","shift":"night","current_count":12,"available_count":10,"on_shift_count":8,"on_leave_count":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/resources/staffing", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpsertStaffing(c); err != nil {
		t.Fatalf("UpsertStaffing: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Staffing data updated") {
		t.Errorf("body missing confirmation message: %s", rec.Body.String())
	}
}
