package model

import "time"

// ServiceDetail is one line item of work performed under an order: the
// installation area, the film units it consumed and the warranty expiry.
// OrderID is nullable because detail rows are inserted before the owning
// order exists and back-linked inside the same transaction.
type ServiceDetail struct {
	ID                 uint64    // service_details.id
	Name               string    // service_details.name
	ConsumedFilmAmount int64     // service_details.consumed_film_amount
	DueDate            string    // service_details.due_date
	ZizeomID           uint64    // service_details.zizeom_id
	OrderID            *uint64   // service_details.order_id (nullable)
	CreatedAt          time.Time // service_details.created_at
	UpdatedAt          time.Time // service_details.updated_at
}
