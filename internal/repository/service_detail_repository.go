package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zizeomlab/film-warranty/internal/model"
)

// ServiceDetailRepo provides persistence for warranty line items.  The
// creation-side methods operate inside the order transaction; the read
// side serves detail and listing views.
type ServiceDetailRepo struct {
	db *sql.DB
}

func NewServiceDetailRepo(db *sql.DB) *ServiceDetailRepo { return &ServiceDetailRepo{db: db} }

// CreateBulkTx inserts one row per item, each stamped with its branch
// and a NULL order_id, and returns the generated IDs in input order.
// Rows are inserted individually so the IDs can be collected without
// relying on consecutive auto-increment allocation.  Passing an empty
// slice has no effect and returns nil.
func (r *ServiceDetailRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, items []model.ServiceDetail) ([]uint64, error) {
	if len(items) == 0 {
		return nil, nil
	}
	const q = `INSERT INTO service_details (name, consumed_film_amount, due_date, zizeom_id)
	           VALUES (?, ?, ?, ?)`
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		res, err := tx.ExecContext(ctx, q, it.Name, it.ConsumedFilmAmount, it.DueDate, it.ZizeomID)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

// SetOrderTx back-links the given detail rows to their owning order in
// a single statement.  Passing an empty slice has no effect.
func (r *ServiceDetailRepo) SetOrderTx(ctx context.Context, tx *sql.Tx, orderID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, orderID)
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := "UPDATE service_details SET order_id = ? WHERE id IN (" +
		strings.Join(placeholders, ",") + ")"
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ServiceDetailRow is a line item as serialized in order payloads.
type ServiceDetailRow struct {
	ID                 uint64    `json:"id"`
	Name               string    `json:"name"`
	ConsumedFilmAmount int64     `json:"consumedFilmAmount"`
	DueDate            string    `json:"dueDate"`
	ZizeomID           uint64    `json:"zizeomId"`
	OrderID            *uint64   `json:"orderId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func scanServiceDetailRow(rows interface{ Scan(...any) error }) (ServiceDetailRow, error) {
	var (
		d   ServiceDetailRow
		oid sql.NullInt64
	)
	err := rows.Scan(&d.ID, &d.Name, &d.ConsumedFilmAmount, &d.DueDate, &d.ZizeomID, &oid, &d.CreatedAt)
	if err != nil {
		return d, err
	}
	if oid.Valid {
		v := uint64(oid.Int64)
		d.OrderID = &v
	}
	return d, nil
}

const serviceDetailColumns = `id, name, consumed_film_amount, due_date, zizeom_id, order_id, created_at`

// ListByOrder returns the line items of one order in insertion order.
func (r *ServiceDetailRepo) ListByOrder(ctx context.Context, orderID uint64) ([]ServiceDetailRow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+serviceDetailColumns+" FROM service_details WHERE order_id=? ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServiceDetailRows(rows)
}

// ListByOrders loads the line items for a set of orders in one query,
// grouped by order ID.  Used by the order listing to avoid a query per
// order.
func (r *ServiceDetailRepo) ListByOrders(ctx context.Context, orderIDs []uint64) (map[uint64][]ServiceDetailRow, error) {
	out := make(map[uint64][]ServiceDetailRow)
	if len(orderIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(orderIDs))
	args := make([]any, 0, len(orderIDs))
	for _, id := range orderIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := "SELECT " + serviceDetailColumns + " FROM service_details WHERE order_id IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY order_id, id"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		d, err := scanServiceDetailRow(rows)
		if err != nil {
			return nil, err
		}
		if d.OrderID == nil {
			continue
		}
		out[*d.OrderID] = append(out[*d.OrderID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByZizeom returns every line item recorded against one branch.
func (r *ServiceDetailRepo) ListByZizeom(ctx context.Context, zizeomID uint64) ([]ServiceDetailRow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+serviceDetailColumns+" FROM service_details WHERE zizeom_id=? ORDER BY id", zizeomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServiceDetailRows(rows)
}

func collectServiceDetailRows(rows *sql.Rows) ([]ServiceDetailRow, error) {
	out := make([]ServiceDetailRow, 0)
	for rows.Next() {
		d, err := scanServiceDetailRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
