package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/zizeomlab/film-warranty/internal/model"
	"github.com/zizeomlab/film-warranty/internal/utils"
)

type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// CreateAccountParams carries the validated input for a new account.
// Password is the plain credential; it is hashed before the insert and
// never stored.
type CreateAccountParams struct {
	AccountName  string
	Role         string
	Name         string
	Email        string
	Password     string
	Phone        string
	Address      string
	CarName      string
	CarNumber    string
	CarDaeNumber string
}

// Create inserts an account and returns its ID.  Duplicate email and
// account name collisions are mapped to their sentinel errors.
func (r *AccountRepo) Create(ctx context.Context, p CreateAccountParams, cost int) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO accounts
			(account_name, role, name, email, password_hash, phone, address, car_name, car_number, car_dae_number)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.AccountName, p.Role, p.Name, email, hash, p.Phone, p.Address,
		p.CarName, p.CarNumber, p.CarDaeNumber)
	if err != nil {
		if msg := strings.ToLower(err.Error()); strings.Contains(msg, "1062") {
			if strings.Contains(msg, "uq_accounts_account_name") {
				return 0, ErrAccountNameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const accountColumns = `id, account_name, role, name, email, password_hash, phone, address,
	car_name, car_number, car_dae_number, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.AccountName, &a.Role, &a.Name, &a.Email, &a.PasswordHash,
		&a.Phone, &a.Address, &a.CarName, &a.CarNumber, &a.CarDaeNumber,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByAccountName fetches an account by its login name.  Used by the
// login flow; the caller compares the bcrypt hash.
func (r *AccountRepo) GetByAccountName(ctx context.Context, accountName string) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE account_name=? LIMIT 1",
		strings.TrimSpace(accountName))
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// Exists reports whether an account with the given id is present.  The
// zizeom and order creation flows use it to reject dangling references
// before writing anything.
func (r *AccountRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AccountSearchQuery defines the in-memory filters of the original
// listing page, pushed down into SQL: a case-insensitive substring
// Search matched against any of the identifying text columns, and an
// exact Role filter.  Zero values match everything.
type AccountSearchQuery struct {
	Search string
	Role   string
}

// List returns accounts matching the query in insertion order.
func (r *AccountRepo) List(ctx context.Context, q AccountSearchQuery) ([]model.Account, error) {
	where := []string{}
	args := []any{}
	if s := strings.TrimSpace(q.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		where = append(where,
			"(LOWER(account_name) LIKE ? OR LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(car_number) LIKE ?)")
		args = append(args, pat, pat, pat, pat)
	}
	if q.Role != "" {
		where = append(where, "role = ?")
		args = append(args, q.Role)
	}
	query := "SELECT " + accountColumns + " FROM accounts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
