package models

import (
	"time"
)

// Known order statuses. The set is defined by the server and may grow.
const (
	OrderStatusCreated = "created"
	OrderStatusPending = "pending"
	OrderStatusDone    = "done"
)

// Order represents a placed order. Ingredients holds catalog identifiers in
// build order, the bun appearing first and last.
type Order struct {
	ID          string    `json:"_id" gorm:"primaryKey"`
	Status      string    `json:"status" gorm:"index;not null"`
	Name        string    `json:"name"`
	Number      int       `json:"number" gorm:"uniqueIndex;not null"`
	Ingredients []string  `json:"ingredients" gorm:"serializer:json"`
	OwnerID     uint      `json:"-" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Feed is the public order stream together with its aggregate counters
type Feed struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}
