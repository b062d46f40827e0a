package event

import (
	"context"
	"log/slog"
)

const TopicProductDeleted = "product.deleted"

type ProductDeletedEvent struct {
	ProductID      string `json:"product_id"`
	Sku            string `json:"sku"`
	RecordsDeleted int64  `json:"records_deleted"`
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
		slog.Int64("records_deleted", ev.RecordsDeleted))
	return nil
}
