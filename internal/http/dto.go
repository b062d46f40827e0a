package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/pkg/ptr"
)

type CreateProductRequest struct {
	Sku           string `json:"sku"`
	Name          string `json:"name"`
	ShelfLifeDays int    `json:"shelf_life_days"`
	ReminderDays  int    `json:"reminder_days"`
	Location      string `json:"location"`
}

type UpdateProductRequest struct {
	Name          string `json:"name"`
	ShelfLifeDays int    `json:"shelf_life_days"`
	ReminderDays  int    `json:"reminder_days"`
	Location      string `json:"location"`
}

type ProductResponse struct {
	ID            uuid.UUID `json:"id"`
	Sku           string    `json:"sku"`
	Name          string    `json:"name"`
	ShelfLifeDays int       `json:"shelf_life_days"`
	ReminderDays  int       `json:"reminder_days"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newProductResponse(p model.Product) ProductResponse {
	return ProductResponse(p)
}

type DeleteProductResponse struct {
	Deleted        bool  `json:"deleted"`
	RecordsDeleted int64 `json:"records_deleted"`
}

type SubmitStockRecordRequest struct {
	Sku            string `json:"sku"`
	ProductionDate string `json:"production_date"`
	ShelfLifeDays  int    `json:"shelf_life_days"`
	ReminderDays   int    `json:"reminder_days"`
	Force          bool   `json:"force"`
}

type StockRecordResponse struct {
	ID               uuid.UUID    `json:"id"`
	Sku              string       `json:"sku"`
	Name             string       `json:"name"`
	Location         string       `json:"location"`
	ProductionDate   model.Date   `json:"production_date"`
	ShelfLifeDays    int          `json:"shelf_life_days"`
	ReminderDays     int          `json:"reminder_days"`
	CreatedAt        time.Time    `json:"created_at"`
	ExpiryDate       *model.Date  `json:"expiry_date"`
	ReminderDate     *model.Date  `json:"reminder_date"`
	RemainingDays    *int         `json:"remaining_days"`
	Status           model.Status `json:"status"`
	ShelfLifePercent int          `json:"shelf_life_percent"`
}

func newStockRecordResponse(v model.StockRecordView) StockRecordResponse {
	exp := newExpiryResponse(v.Expiry)
	return StockRecordResponse{
		ID:               v.ID,
		Sku:              v.Sku,
		Name:             v.Name,
		Location:         v.Location,
		ProductionDate:   v.ProductionDate,
		ShelfLifeDays:    v.ShelfLifeDays,
		ReminderDays:     v.ReminderDays,
		CreatedAt:        v.CreatedAt,
		ExpiryDate:       exp.ExpiryDate,
		ReminderDate:     exp.ReminderDate,
		RemainingDays:    exp.RemainingDays,
		Status:           exp.Status,
		ShelfLifePercent: exp.ShelfLifePercent,
	}
}

func newStockRecordResponses(views []model.StockRecordView) []StockRecordResponse {
	items := make([]StockRecordResponse, 0, len(views))
	for _, v := range views {
		items = append(items, newStockRecordResponse(v))
	}
	return items
}

// ExpiryResponse reports null dates and remaining days when the shelf life is unset.
type ExpiryResponse struct {
	ExpiryDate       *model.Date  `json:"expiry_date"`
	ReminderDate     *model.Date  `json:"reminder_date"`
	RemainingDays    *int         `json:"remaining_days"`
	Status           model.Status `json:"status"`
	ShelfLifePercent int          `json:"shelf_life_percent"`
}

func newExpiryResponse(e model.Expiry) ExpiryResponse {
	res := ExpiryResponse{
		Status:           e.Status,
		ShelfLifePercent: e.ShelfLifePercent,
	}
	if e.Status == model.StatusUnset {
		return res
	}

	res.ExpiryDate = ptr.New(e.ExpiryDate)
	res.ReminderDate = ptr.New(e.ReminderDate)
	res.RemainingDays = ptr.New(e.RemainingDays)
	return res
}

type CheckDuplicateResponse struct {
	Exists   bool               `json:"exists"`
	Existing *model.StockRecord `json:"existing,omitempty"`
}

type DeleteStockRecordResponse struct {
	Deleted bool `json:"deleted"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
