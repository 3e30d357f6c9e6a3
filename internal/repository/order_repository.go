package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zizeomlab/film-warranty/internal/model"
)

// OrderRepo provides persistence for warranty orders.  Creation happens
// inside a transaction shared with the service detail and zizeom
// repositories; reads join the branch and customer account into the
// returned payloads the way the original document views did.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so the handler can open the order
// creation transaction.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new order within the scope of an existing
// transaction.  It populates the generated ID and the server-assigned
// timestamps on the provided record.  The caller must commit or
// rollback the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Order) error {
	const q = `INSERT INTO orders (service_target, service_date, service_price, zizeom_id, account_id, car_number)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		rec.ServiceTarget, rec.ServiceDate, rec.ServicePrice, rec.ZizeomID, rec.AccountID, rec.CarNumber)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT created_at, updated_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, rec.ID).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// ZizeomInfo is the branch joined into order payloads.
type ZizeomInfo struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	OwnFilmAmount      int64  `json:"ownFilmAmount"`
	ConsumedFilmAmount int64  `json:"consumedFilmAmount"`
	AccountID          uint64 `json:"accountId"`
}

// OrderDetail is an order together with its joined branch, customer
// account and line items.  ServiceDetailIDs is derived from the line
// item rows, so every listed id necessarily back-references this order.
type OrderDetail struct {
	ID               uint64             `json:"id"`
	ServiceTarget    string             `json:"serviceTarget"`
	ServiceDate      string             `json:"serviceDate"`
	ServicePrice     int64              `json:"servicePrice"`
	ZizeomID         uint64             `json:"zizeomId"`
	AccountID        uint64             `json:"accountId"`
	CarNumber        string             `json:"carNumber"`
	ServiceDetailIDs []uint64           `json:"serviceDetailIds"`
	ServiceDetails   []ServiceDetailRow `json:"serviceDetails"`
	ZizeomInfo       *ZizeomInfo        `json:"zizeomInfo,omitempty"`
	AccountInfo      *AccountInfo       `json:"accountInfo,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

const orderDetailQuery = `SELECT o.id, o.service_target, o.service_date, o.service_price,
		o.zizeom_id, o.account_id, o.car_number, o.created_at, o.updated_at,
		z.id, z.name, z.address, z.phone, z.own_film_amount, z.consumed_film_amount, z.account_id,
		a.id, a.account_name, a.role, a.name, a.email, a.phone, a.address,
		a.car_name, a.car_number, a.car_dae_number
	FROM orders o
	LEFT JOIN zizeoms z ON z.id = o.zizeom_id
	LEFT JOIN accounts a ON a.id = o.account_id`

func scanOrderDetail(rows interface{ Scan(...any) error }) (OrderDetail, error) {
	var (
		d OrderDetail

		zID       sql.NullInt64
		zName     sql.NullString
		zAddr     sql.NullString
		zPhone    sql.NullString
		zOwn      sql.NullInt64
		zConsumed sql.NullInt64
		zAccount  sql.NullInt64

		accID     sql.NullInt64
		accName   sql.NullString
		accRole   sql.NullString
		accDisp   sql.NullString
		accEmail  sql.NullString
		accPhone  sql.NullString
		accAddr   sql.NullString
		carName   sql.NullString
		carNumber sql.NullString
		carDae    sql.NullString
	)
	err := rows.Scan(&d.ID, &d.ServiceTarget, &d.ServiceDate, &d.ServicePrice,
		&d.ZizeomID, &d.AccountID, &d.CarNumber, &d.CreatedAt, &d.UpdatedAt,
		&zID, &zName, &zAddr, &zPhone, &zOwn, &zConsumed, &zAccount,
		&accID, &accName, &accRole, &accDisp, &accEmail, &accPhone, &accAddr,
		&carName, &carNumber, &carDae)
	if err != nil {
		return d, err
	}
	if zID.Valid {
		d.ZizeomInfo = &ZizeomInfo{
			ID:                 uint64(zID.Int64),
			Name:               zName.String,
			Address:            zAddr.String,
			Phone:              zPhone.String,
			OwnFilmAmount:      zOwn.Int64,
			ConsumedFilmAmount: zConsumed.Int64,
			AccountID:          uint64(zAccount.Int64),
		}
	}
	if accID.Valid {
		d.AccountInfo = &AccountInfo{
			ID:           uint64(accID.Int64),
			AccountName:  accName.String,
			Role:         accRole.String,
			Name:         accDisp.String,
			Email:        accEmail.String,
			Phone:        accPhone.String,
			Address:      accAddr.String,
			CarName:      carName.String,
			CarNumber:    carNumber.String,
			CarDaeNumber: carDae.String,
		}
	}
	d.ServiceDetailIDs = []uint64{}
	d.ServiceDetails = []ServiceDetailRow{}
	return d, nil
}

// attachDetails populates ServiceDetails and the derived id list.
func attachDetails(d *OrderDetail, details []ServiceDetailRow) {
	d.ServiceDetails = details
	d.ServiceDetailIDs = make([]uint64, 0, len(details))
	for _, sd := range details {
		d.ServiceDetailIDs = append(d.ServiceDetailIDs, sd.ID)
	}
}

// GetDetail returns one order with its joined branch, account and line
// items.  ErrNotFound is returned when the id resolves to nothing.
func (r *OrderRepo) GetDetail(ctx context.Context, details *ServiceDetailRepo, id uint64) (*OrderDetail, error) {
	row := r.db.QueryRowContext(ctx, orderDetailQuery+" WHERE o.id = ?", id)
	d, err := scanOrderDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := details.ListByOrder(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	attachDetails(&d, rows)
	return &d, nil
}

// GetByCarNumber returns the order matching the literal plate number.
// When several orders carry the same plate the earliest one wins, which
// matches how the original single-order view resolved the parameter.
func (r *OrderRepo) GetByCarNumber(ctx context.Context, details *ServiceDetailRepo, carNumber string) (*OrderDetail, error) {
	row := r.db.QueryRowContext(ctx,
		orderDetailQuery+" WHERE o.car_number = ? ORDER BY o.id LIMIT 1", carNumber)
	d, err := scanOrderDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := details.ListByOrder(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	attachDetails(&d, rows)
	return &d, nil
}

// OrderSearchQuery carries the listing filters: a case-insensitive
// substring Search across the order's target, plate number, customer
// name and branch name, plus exact matches on branch, account and
// plate.  All active filters are ANDed; zero values match everything.
type OrderSearchQuery struct {
	Search    string
	ZizeomID  uint64
	AccountID uint64
	CarNumber string
}

// List returns orders matching the query, each with joined branch,
// account and line items, in insertion order.
func (r *OrderRepo) List(ctx context.Context, details *ServiceDetailRepo, q OrderSearchQuery) ([]OrderDetail, error) {
	where := []string{}
	args := []any{}
	if s := strings.TrimSpace(q.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		where = append(where,
			"(LOWER(o.service_target) LIKE ? OR LOWER(o.car_number) LIKE ? OR LOWER(a.name) LIKE ? OR LOWER(z.name) LIKE ?)")
		args = append(args, pat, pat, pat, pat)
	}
	if q.ZizeomID != 0 {
		where = append(where, "o.zizeom_id = ?")
		args = append(args, q.ZizeomID)
	}
	if q.AccountID != 0 {
		where = append(where, "o.account_id = ?")
		args = append(args, q.AccountID)
	}
	if q.CarNumber != "" {
		where = append(where, "o.car_number = ?")
		args = append(args, q.CarNumber)
	}
	query := orderDetailQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OrderDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		d, err := scanOrderDetail(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Populate line items for all orders in a single query
	ids := make([]uint64, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.ID)
	}
	byOrder, err := details.ListByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for oid, rows := range byOrder {
		if idx, ok := index[oid]; ok {
			attachDetails(&out[idx], rows)
		}
	}
	return out, nil
}
