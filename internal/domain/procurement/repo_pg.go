package procurement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

// -- Purchase orders --

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository {
	return &orderRepoPG{pool: pool}
}

func (r *orderRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const orderCols = `id, order_id, supplier_id, items, total_amount, status, priority,
	requested_by, requested_date, expected_delivery, created_at`

func (r *orderRepoPG) scanRow(row pgx.Row) (*PurchaseOrder, error) {
	var o PurchaseOrder
	var itemsJSON []byte
	err := row.Scan(&o.ID, &o.OrderID, &o.SupplierID, &itemsJSON, &o.TotalAmount, &o.Status,
		&o.Priority, &o.RequestedBy, &o.RequestedDate, &o.ExpectedDelivery, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}

func (r *orderRepoPG) List(ctx context.Context, f OrderFilter) ([]*PurchaseOrder, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+orderCols+` FROM purchase_orders
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR priority = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, f.Status, f.Priority, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*PurchaseOrder, 0)
	for rows.Next() {
		o, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepoPG) GetByOrderID(ctx context.Context, orderID string) (*PurchaseOrder, error) {
	o, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+orderCols+` FROM purchase_orders WHERE order_id = $1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *orderRepoPG) Create(ctx context.Context, o *PurchaseOrder) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}

	o.ID = uuid.New()
	// order_id comes from the sequence inside the INSERT so concurrent
	// creates can never collide.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO purchase_orders (id, order_id, supplier_id, items, total_amount, status, priority, requested_by, expected_delivery)
		VALUES ($1, 'PO-2024-' || lpad(nextval('purchase_order_seq')::text, 3, '0'), $2, $3, $4, $5, $6, $7, $8)
		RETURNING order_id, requested_date, created_at`,
		o.ID, o.SupplierID, itemsJSON, o.TotalAmount, o.Status, o.Priority,
		o.RequestedBy, o.ExpectedDelivery).
		Scan(&o.OrderID, &o.RequestedDate, &o.CreatedAt)
}

func (r *orderRepoPG) UpdateStatus(ctx context.Context, orderID, status string) (*PurchaseOrder, error) {
	o, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `
		UPDATE purchase_orders SET status = $2 WHERE order_id = $1
		RETURNING `+orderCols, orderID, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *orderRepoPG) Approve(ctx context.Context, orderID string) (*PurchaseOrder, error) {
	// The status guard lives in the statement itself so two concurrent
	// approvals cannot both win the row.
	o, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `
		UPDATE purchase_orders SET status = 'approved'
		WHERE order_id = $1 AND status <> 'approved'
		RETURNING `+orderCols, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// -- Suppliers --

type supplierRepoPG struct{ pool *pgxpool.Pool }

func NewSupplierRepoPG(pool *pgxpool.Pool) SupplierRepository {
	return &supplierRepoPG{pool: pool}
}

func (r *supplierRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const supplierCols = `id, supplier_id, name, contact_person, phone, email, items_supplied,
	rating, delivery_time_avg, is_active, created_at`

func (r *supplierRepoPG) scanRow(row pgx.Row) (*Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.SupplierID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email,
		&s.ItemsSupplied, &s.Rating, &s.DeliveryTimeAvg, &s.IsActive, &s.CreatedAt)
	return &s, err
}

func (r *supplierRepoPG) List(ctx context.Context, itemType string, limit, offset int) ([]*Supplier, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+supplierCols+` FROM suppliers
		WHERE ($1 = '' OR $1 = ANY(items_supplied))
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, itemType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]*Supplier, 0)
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *supplierRepoPG) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT supplier_id, name FROM suppliers WHERE supplier_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *supplierRepoPG) GetBySupplierID(ctx context.Context, supplierID string) (*Supplier, error) {
	s, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+supplierCols+` FROM suppliers WHERE supplier_id = $1`, supplierID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	return s, err
}

func (r *supplierRepoPG) Create(ctx context.Context, s *Supplier) error {
	s.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO suppliers (id, supplier_id, name, contact_person, phone, email, items_supplied, rating, delivery_time_avg, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at`,
		s.ID, s.SupplierID, s.Name, s.ContactPerson, s.Phone, s.Email,
		s.ItemsSupplied, s.Rating, s.DeliveryTimeAvg, s.IsActive).
		Scan(&s.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSupplier
	}
	return err
}
