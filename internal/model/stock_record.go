package model

import (
	"time"

	"github.com/google/uuid"
)

// StockRecord is a production-dated batch of a product.
//
// Name and Location are copied from the product when the record is created,
// ShelfLifeDays and ReminderDays from the request. Later catalog edits do not
// change existing records. Records are never mutated after creation.
type StockRecord struct {
	ID             uuid.UUID `json:"id"`
	Sku            string    `json:"sku"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	ProductionDate Date      `json:"production_date"`
	ShelfLifeDays  int       `json:"shelf_life_days"`
	ReminderDays   int       `json:"reminder_days"`
	CreatedAt      time.Time `json:"created_at"`
}

// StockRecordView is a stock record with its expiry state computed at a given instant.
type StockRecordView struct {
	StockRecord
	Expiry
}
