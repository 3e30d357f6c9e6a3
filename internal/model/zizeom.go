package model

import "time"

// Zizeom represents a branch location that performs film installations
// and keeps its own film inventory.  This struct corresponds to a row
// in the `zizeoms` table.  ConsumedFilmAmount is a running counter
// maintained by the order creation flow; the reconciliation operation
// recomputes it from the branch's service detail rows to detect drift.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – branch name.
//  Address            – branch address.
//  Phone              – branch phone number.
//  OwnFilmAmount      – total film inventory units available.
//  ConsumedFilmAmount – cumulative units consumed by all orders.
//  AccountID          – representative account for this branch.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Zizeom struct {
	ID                 uint64    // zizeoms.id
	Name               string    // zizeoms.name
	Address            string    // zizeoms.address
	Phone              string    // zizeoms.phone
	OwnFilmAmount      int64     // zizeoms.own_film_amount
	ConsumedFilmAmount int64     // zizeoms.consumed_film_amount
	AccountID          uint64    // zizeoms.account_id
	CreatedAt          time.Time // zizeoms.created_at
	UpdatedAt          time.Time // zizeoms.updated_at
}
