// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderCreatedEvent is published after a warranty order commits. It carries
// enough context for downstream consumers to log or trigger notifications
// without querying the primary database.
type OrderCreatedEvent struct {
	OrderID         uint64 `json:"order_id"`
	ZizeomID        uint64 `json:"zizeom_id"`
	AccountID       uint64 `json:"account_id"`
	ServiceTarget   string `json:"service_target"`
	ServiceDate     string `json:"service_date"`
	ServicePrice    int64  `json:"service_price"`
	CarNumber       string `json:"car_number"`
	DetailCount     int    `json:"detail_count"`
	TotalFilmAmount int64  `json:"total_film_amount"`
	CreatedAt       string `json:"created_at"`
}
