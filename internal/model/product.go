package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog template stock records are created from.
// Sku is immutable once created.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Sku           string    `json:"sku"`
	Name          string    `json:"name"`
	ShelfLifeDays int       `json:"shelf_life_days"`
	ReminderDays  int       `json:"reminder_days"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
