package event

import (
	"context"
	"log/slog"
)

const TopicStockRecordExpiring = "stock_record.expiring"

type ExpiringItem struct {
	StockRecordID string `json:"stock_record_id"`
	Sku           string `json:"sku"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	ExpiryDate    string `json:"expiry_date"`
	RemainingDays int    `json:"remaining_days"`
	Status        string `json:"status"`
}

// StockRecordExpiringEvent is a snapshot of every record inside its reminder window.
type StockRecordExpiringEvent struct {
	Date    string         `json:"date"`
	Expired int            `json:"expired"`
	Warning int            `json:"warning"`
	Items   []ExpiringItem `json:"items"`
}

func (s *Service) handleStockRecordExpiringEvent(ctx context.Context, ev StockRecordExpiringEvent) error {
	level := slog.LevelInfo
	if ev.Expired > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "handling stock record expiring event",
		slog.String("date", ev.Date),
		slog.Int("expired", ev.Expired),
		slog.Int("warning", ev.Warning))
	return nil
}
