package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/zizeomlab/film-warranty/internal/model"
)

// ZizeomRepo provides persistence for branch locations and their film
// inventory counters.  The consumed counter is only ever mutated through
// IncrementConsumedTx (inside the order creation transaction) and
// Reconcile.
type ZizeomRepo struct {
	db *sql.DB
}

func NewZizeomRepo(db *sql.DB) *ZizeomRepo { return &ZizeomRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning several repositories.
func (r *ZizeomRepo) DB() *sql.DB { return r.db }

// Create inserts a branch and returns its ID.  The caller must have
// verified that AccountID references an existing account.
func (r *ZizeomRepo) Create(ctx context.Context, z *model.Zizeom) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO zizeoms (name, address, phone, own_film_amount, consumed_film_amount, account_id)
		 VALUES (?,?,?,?,?,?)`,
		z.Name, z.Address, z.Phone, z.OwnFilmAmount, z.ConsumedFilmAmount, z.AccountID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// AccountInfo is the representative account joined into branch and
// order payloads.  It deliberately carries no password material.
type AccountInfo struct {
	ID           uint64 `json:"id"`
	AccountName  string `json:"accountName"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	CarName      string `json:"carName,omitempty"`
	CarNumber    string `json:"carNumber,omitempty"`
	CarDaeNumber string `json:"carDaeNumber,omitempty"`
}

// ZizeomDetail is a branch together with its joined representative
// account.  AccountInfo is nil when the referenced account row has
// been removed out-of-band.  ServiceDetails holds the line items
// recorded against the branch; it is populated on the single view only
// and omitted from listings.
type ZizeomDetail struct {
	ID                 uint64             `json:"id"`
	Name               string             `json:"name"`
	Address            string             `json:"address"`
	Phone              string             `json:"phone"`
	OwnFilmAmount      int64              `json:"ownFilmAmount"`
	ConsumedFilmAmount int64              `json:"consumedFilmAmount"`
	AccountID          uint64             `json:"accountId"`
	AccountInfo        *AccountInfo       `json:"accountInfo,omitempty"`
	ServiceDetails     []ServiceDetailRow `json:"serviceDetails,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func scanZizeomDetail(rows interface{ Scan(...any) error }) (ZizeomDetail, error) {
	var (
		d         ZizeomDetail
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
	err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.Phone, &d.OwnFilmAmount,
		&d.ConsumedFilmAmount, &d.AccountID, &d.CreatedAt, &d.UpdatedAt,
		&accID, &accName, &accRole, &accDisp, &accEmail, &accPhone, &accAddr,
		&carName, &carNumber, &carDae)
	if err != nil {
		return d, err
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
	return d, nil
}

const zizeomDetailQuery = `SELECT z.id, z.name, z.address, z.phone, z.own_film_amount,
		z.consumed_film_amount, z.account_id, z.created_at, z.updated_at,
		a.id, a.account_name, a.role, a.name, a.email, a.phone, a.address,
		a.car_name, a.car_number, a.car_dae_number
	FROM zizeoms z
	LEFT JOIN accounts a ON a.id = z.account_id`

// GetDetail returns one branch with its representative account joined
// in.  ErrNotFound is returned when the id resolves to nothing.
func (r *ZizeomRepo) GetDetail(ctx context.Context, id uint64) (*ZizeomDetail, error) {
	row := r.db.QueryRowContext(ctx, zizeomDetailQuery+" WHERE z.id = ?", id)
	d, err := scanZizeomDetail(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ZizeomSearchQuery filters the branch listing: Search is a
// case-insensitive substring matched against name, address and phone;
// AccountID restricts to branches represented by one account.
type ZizeomSearchQuery struct {
	Search    string
	AccountID uint64
}

// List returns branches matching the query, each with its joined
// representative account, in insertion order.
func (r *ZizeomRepo) List(ctx context.Context, q ZizeomSearchQuery) ([]ZizeomDetail, error) {
	where := []string{}
	args := []any{}
	if s := strings.TrimSpace(q.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		where = append(where, "(LOWER(z.name) LIKE ? OR LOWER(z.address) LIKE ? OR LOWER(z.phone) LIKE ?)")
		args = append(args, pat, pat, pat)
	}
	if q.AccountID != 0 {
		where = append(where, "z.account_id = ?")
		args = append(args, q.AccountID)
	}
	query := zizeomDetailQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY z.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ZizeomDetail, 0)
	for rows.Next() {
		d, err := scanZizeomDetail(rows)
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

// ExistsTx reports whether a branch row exists, within a transaction.
func (r *ZizeomRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM zizeoms WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IncrementConsumedTx adds delta to a branch's consumed film counter.
// The increment happens inside the UPDATE itself, so concurrent order
// creations against one branch compose without a read-modify-write race.
func (r *ZizeomRepo) IncrementConsumedTx(ctx context.Context, tx *sql.Tx, id uint64, delta int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE zizeoms SET consumed_film_amount = consumed_film_amount + ? WHERE id = ?",
		delta, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reconcile recomputes a branch's consumed counter from the sum of its
// service detail rows and stores the recomputed value.  It returns the
// previous and recomputed counters so callers can report drift.  The
// branch row is locked for the duration so a concurrent order creation
// cannot interleave between the read and the write.
func (r *ZizeomRepo) Reconcile(ctx context.Context, id uint64) (previous, recomputed int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		"SELECT consumed_film_amount FROM zizeoms WHERE id=? FOR UPDATE", id).Scan(&previous)
	if err == sql.ErrNoRows {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(consumed_film_amount), 0) FROM service_details WHERE zizeom_id=?",
		id).Scan(&recomputed)
	if err != nil {
		return 0, 0, err
	}
	if recomputed != previous {
		if _, err = tx.ExecContext(ctx,
			"UPDATE zizeoms SET consumed_film_amount=? WHERE id=?", recomputed, id); err != nil {
			return 0, 0, err
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	committed = true
	return previous, recomputed, nil
}
