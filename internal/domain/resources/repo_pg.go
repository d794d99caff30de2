package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrm/hrm/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// -- Inventory --

type inventoryRepoPG struct{ pool *pgxpool.Pool }

func NewInventoryRepoPG(pool *pgxpool.Pool) InventoryRepository {
	return &inventoryRepoPG{pool: pool}
}

func (r *inventoryRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const inventoryCols = `id, item_name, category, current_stock, unit, reorder_level, location,
	expiry_date, last_updated, created_at`

func (r *inventoryRepoPG) scanRow(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	err := row.Scan(&it.ID, &it.ItemName, &it.Category, &it.CurrentStock, &it.Unit, &it.ReorderLevel,
		&it.Location, &it.ExpiryDate, &it.LastUpdated, &it.CreatedAt)
	return &it, err
}

func (r *inventoryRepoPG) List(ctx context.Context, f InventoryFilter) ([]*InventoryItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+inventoryCols+` FROM inventory_items
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*InventoryItem, 0)
	for rows.Next() {
		it, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *inventoryRepoPG) Upsert(ctx context.Context, item *InventoryItem) (*InventoryItem, error) {
	// expiry_date survives an update that omits it; everything else is
	// overwritten by the incoming payload.
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO inventory_items (id, item_name, category, current_stock, unit, reorder_level, location, expiry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (item_name, location) DO UPDATE SET
			category      = EXCLUDED.category,
			current_stock = EXCLUDED.current_stock,
			unit          = EXCLUDED.unit,
			reorder_level = EXCLUDED.reorder_level,
			expiry_date   = COALESCE(EXCLUDED.expiry_date, inventory_items.expiry_date),
			last_updated  = NOW()
		RETURNING `+inventoryCols,
		uuid.New(), item.ItemName, item.Category, item.CurrentStock, item.Unit,
		item.ReorderLevel, item.Location, item.ExpiryDate)
	return r.scanRow(row)
}

func (r *inventoryRepoPG) IncrementStock(ctx context.Context, itemName, location string, qty int) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE inventory_items
		SET current_stock = current_stock + $1, last_updated = NOW()
		WHERE item_name = $2 AND ($3 = '' OR location = $3)`,
		qty, itemName, location)
	if err != nil {
		return err
	}
	switch {
	case tag.RowsAffected() == 0:
		return ErrItemNotFound
	case tag.RowsAffected() > 1:
		// Name alone matched several locations. Callers run this inside a
		// transaction, so returning the error undoes the multi-row update.
		return ErrAmbiguousItem
	}
	return nil
}

// -- Staffing --

type staffingRepoPG struct{ pool *pgxpool.Pool }

func NewStaffingRepoPG(pool *pgxpool.Pool) StaffingRepository {
	return &staffingRepoPG{pool: pool}
}

func (r *staffingRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const staffingCols = `id, staff_type, current_count, available_count, on_shift_count, on_leave_count,
	department, shift, last_updated, created_at`

func (r *staffingRepoPG) scanRow(row pgx.Row) (*StaffingRecord, error) {
	var s StaffingRecord
	err := row.Scan(&s.ID, &s.StaffType, &s.CurrentCount, &s.AvailableCount, &s.OnShiftCount,
		&s.OnLeaveCount, &s.Department, &s.Shift, &s.LastUpdated, &s.CreatedAt)
	return &s, err
}

func (r *staffingRepoPG) List(ctx context.Context, f StaffingFilter) ([]*StaffingRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+staffingCols+` FROM staffing_records
		WHERE ($1 = '' OR department = $1) AND ($2 = '' OR shift = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, f.Department, f.Shift, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]*StaffingRecord, 0)
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, s)
	}
	return recs, rows.Err()
}

func (r *staffingRepoPG) Upsert(ctx context.Context, rec *StaffingRecord) (*StaffingRecord, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO staffing_records (id, staff_type, current_count, available_count, on_shift_count, on_leave_count, department, shift)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (staff_type, department, shift) DO UPDATE SET
			current_count   = EXCLUDED.current_count,
			available_count = EXCLUDED.available_count,
			on_shift_count  = EXCLUDED.on_shift_count,
			on_leave_count  = EXCLUDED.on_leave_count,
			last_updated    = NOW()
		RETURNING `+staffingCols,
		uuid.New(), rec.StaffType, rec.CurrentCount, rec.AvailableCount,
		rec.OnShiftCount, rec.OnLeaveCount, rec.Department, rec.Shift)
	return r.scanRow(row)
}

// -- Bed capacity --

type bedCapacityRepoPG struct{ pool *pgxpool.Pool }

func NewBedCapacityRepoPG(pool *pgxpool.Pool) BedCapacityRepository {
	return &bedCapacityRepoPG{pool: pool}
}

func (r *bedCapacityRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const bedCapacityCols = `id, ward_type, total_beds, occupied_beds, available_beds, reserved_beds,
	last_updated, created_at`

func (r *bedCapacityRepoPG) scanRow(row pgx.Row) (*BedCapacityRecord, error) {
	var b BedCapacityRecord
	err := row.Scan(&b.ID, &b.WardType, &b.TotalBeds, &b.OccupiedBeds, &b.AvailableBeds,
		&b.ReservedBeds, &b.LastUpdated, &b.CreatedAt)
	return &b, err
}

func (r *bedCapacityRepoPG) List(ctx context.Context, wardType string, limit, offset int) ([]*BedCapacityRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+bedCapacityCols+` FROM bed_capacity
		WHERE ($1 = '' OR ward_type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, wardType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]*BedCapacityRecord, 0)
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, b)
	}
	return recs, rows.Err()
}

func (r *bedCapacityRepoPG) Upsert(ctx context.Context, rec *BedCapacityRecord) (*BedCapacityRecord, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bed_capacity (id, ward_type, total_beds, occupied_beds, available_beds, reserved_beds)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (ward_type) DO UPDATE SET
			total_beds     = EXCLUDED.total_beds,
			occupied_beds  = EXCLUDED.occupied_beds,
			available_beds = EXCLUDED.available_beds,
			reserved_beds  = EXCLUDED.reserved_beds,
			last_updated   = NOW()
		RETURNING `+bedCapacityCols,
		uuid.New(), rec.WardType, rec.TotalBeds, rec.OccupiedBeds, rec.AvailableBeds, rec.ReservedBeds)
	return r.scanRow(row)
}
