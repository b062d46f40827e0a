package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

// DuplicateRecordError blocks an admission because a record with the same sku
// and production date exists. It is an expected outcome: the caller either
// cancels or resubmits with Force.
type DuplicateRecordError struct {
	Existing model.StockRecord
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("stock record %s already exists for sku %s produced on %s",
		e.Existing.ID, e.Existing.Sku, e.Existing.ProductionDate)
}

func (e *DuplicateRecordError) Unwrap() error {
	return apperr.DuplicateRecordErr
}

// ErrorData exposes the existing record so a caller can render a confirmation.
func (e *DuplicateRecordError) ErrorData() any {
	return e.Existing
}

func (s *stockRecordService) SubmitStockRecord(ctx context.Context, params SubmitStockRecordParams) (model.StockRecordView, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.StockRecordView{}, apperr.ValidationErr.WrapParent(err)
	}

	productionDate, err := model.ParseDate(params.ProductionDate)
	if err != nil {
		return model.StockRecordView{}, apperr.ValidationErr.WrapParent(err)
	}

	// The duplicate check and the insert must not interleave with another
	// admission of the same sku: in-process via skuLocks, across instances via
	// the advisory lock taken inside the transaction.
	unlock := s.skuLocks.Lock(params.Sku)
	defer unlock()

	var record model.StockRecord
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		stockRecordRepo := s.stockRecordRepo.WithDB(db)

		if err := stockRecordRepo.LockSku(ctx, params.Sku); err != nil {
			return fmt.Errorf("stock record repository lock sku: %w", err)
		}

		if !params.Force {
			existing, err := stockRecordRepo.FindDuplicate(ctx, params.Sku, productionDate)
			if err != nil {
				return fmt.Errorf("stock record repository find duplicate: %w", err)
			}
			if existing != nil {
				return &DuplicateRecordError{Existing: *existing}
			}
		}

		product, err := s.productRepo.WithDB(db).GetProductBySku(ctx, params.Sku)
		if err != nil {
			return fmt.Errorf("product repository get product by sku: %w", err)
		}
		if product == nil {
			return apperr.ProductNotFoundErr
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate uuid v7: %w", err)
		}

		record = model.StockRecord{
			ID:             id,
			Sku:            product.Sku,
			Name:           product.Name,
			Location:       product.Location,
			ProductionDate: productionDate,
			ShelfLifeDays:  params.ShelfLifeDays,
			ReminderDays:   params.ReminderDays,
			CreatedAt:      s.clock.Now(),
		}

		if err := stockRecordRepo.CreateStockRecord(ctx, record); err != nil {
			return fmt.Errorf("stock record repository create stock record: %w", err)
		}

		return EnqueueEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicStockRecordCreated, record.Sku, event.StockRecordCreatedEvent{
			StockRecordID:  record.ID.String(),
			Sku:            record.Sku,
			Name:           record.Name,
			Location:       record.Location,
			ProductionDate: record.ProductionDate.String(),
			ExpiryDate:     record.ProductionDate.AddDays(record.ShelfLifeDays).String(),
			Forced:         params.Force,
		})
	}); err != nil {
		var dupErr *DuplicateRecordError
		if errors.As(err, &dupErr) {
			s.logger.InfoContext(ctx, "stock record admission blocked by duplicate",
				slog.String("sku", params.Sku),
				slog.String("production_date", productionDate.String()),
				slog.String("existing_id", dupErr.Existing.ID.String()))
			return model.StockRecordView{}, dupErr
		}
		if errors.Is(err, apperr.ProductNotFoundErr) {
			return model.StockRecordView{}, err
		}
		return model.StockRecordView{}, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "stock record admitted",
		slog.String("id", record.ID.String()),
		slog.String("sku", record.Sku),
		slog.String("production_date", record.ProductionDate.String()),
		slog.Bool("forced", params.Force))

	return s.view(record, s.clock.Now()), nil
}
