package event

import (
	"context"
	"log/slog"
)

const TopicStockRecordCreated = "stock_record.created"

type StockRecordCreatedEvent struct {
	StockRecordID  string `json:"stock_record_id"`
	Sku            string `json:"sku"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	ProductionDate string `json:"production_date"`
	ExpiryDate     string `json:"expiry_date"`
	Forced         bool   `json:"forced"`
}

func (s *Service) handleStockRecordCreatedEvent(ctx context.Context, ev StockRecordCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling stock record created event", slog.Any("event", ev))
	return nil
}
