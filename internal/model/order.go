package model

import "time"

// Order is a service warranty record tying a customer account, a branch
// and a batch of service detail line items.  ServicePrice is stored as
// an integer amount of won; thousands separators are stripped from the
// request value before the row is written.
type Order struct {
	ID            uint64    // orders.id
	ServiceTarget string    // orders.service_target
	ServiceDate   string    // orders.service_date
	ServicePrice  int64     // orders.service_price
	ZizeomID      uint64    // orders.zizeom_id
	AccountID     uint64    // orders.account_id
	CarNumber     string    // orders.car_number
	CreatedAt     time.Time // orders.created_at
	UpdatedAt     time.Time // orders.updated_at
}
