package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/clock"
	"github.com/tuanvumaihuynh/shelflife/internal/expiry"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/validator"
)

// ThresholdPolicy decides which window a record must be inside to count as expiring.
type ThresholdPolicy string

const (
	// PolicyRecordReminder uses the reminder days snapshotted on each record.
	PolicyRecordReminder ThresholdPolicy = "reminder"
	// PolicyFixedWindow uses the same window for every record.
	PolicyFixedWindow ThresholdPolicy = "window"
)

func (p ThresholdPolicy) Validate() error {
	switch p {
	case PolicyRecordReminder, PolicyFixedWindow:
		return nil
	default:
		return fmt.Errorf("invalid threshold policy: %q", string(p))
	}
}

type SubmitStockRecordParams struct {
	Sku            string `validate:"required,sku"`
	ProductionDate string `validate:"required,date"`
	ShelfLifeDays  int    `validate:"gt=0,lte=36500"`
	ReminderDays   int    `validate:"gte=0,lte=36500"`
	// Force admits the record even when one with the same sku and production date exists.
	Force bool
}

type CheckDuplicateParams struct {
	Sku            string `validate:"required,sku"`
	ProductionDate string `validate:"required,date"`
}

type ListExpiringParams struct {
	Policy     ThresholdPolicy `validate:"omitempty,enum"`
	WindowDays int             `validate:"gte=0,lte=36500"`
	// At evaluates the list at this instant. Zero means the clock's now.
	At time.Time
}

type PreviewExpiryParams struct {
	ProductionDate string `validate:"required,date"`
	// ShelfLifeDays of zero or less previews as unset.
	ShelfLifeDays  int    `validate:"lte=36500"`
	ReminderDays   int    `validate:"gte=0,lte=36500"`
}

type StockRecordService interface {
	// SubmitStockRecord runs admission. Without Force an existing record with the
	// same sku and production date blocks it with a *DuplicateRecordError.
	SubmitStockRecord(ctx context.Context, params SubmitStockRecordParams) (model.StockRecordView, error)
	// CheckDuplicate returns the existing record for the pair, or nil.
	CheckDuplicate(ctx context.Context, params CheckDuplicateParams) (*model.StockRecord, error)
	// DeleteStockRecord reports whether a record was removed.
	DeleteStockRecord(ctx context.Context, id uuid.UUID) (bool, error)
	// ListStockRecords returns every record, newest first.
	ListStockRecords(ctx context.Context) ([]model.StockRecordView, error)
	// ListExpiringStockRecords returns records inside their window, most urgent first.
	ListExpiringStockRecords(ctx context.Context, params ListExpiringParams) ([]model.StockRecordView, error)
	PreviewExpiry(ctx context.Context, params PreviewExpiryParams) (model.Expiry, error)
}

type stockRecordService struct {
	db              db.DB
	logger          *slog.Logger
	clock           clock.Clock
	calc            expiry.Calculator
	validator       validator.Validator
	productRepo     repository.ProductRepository
	stockRecordRepo repository.StockRecordRepository
	outboxMsgRepo   repository.OutboxMsgRepository

	skuLocks *keyedMutex
}

func NewStockRecordService(
	db db.DB,
	logger *slog.Logger,
	clock clock.Clock,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	stockRecordRepo repository.StockRecordRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) StockRecordService {
	return &stockRecordService{
		db:              db,
		logger:          logger.With(slog.String("service", "stock_record")),
		clock:           clock,
		calc:            expiry.NewCalculator(clock.Location()),
		validator:       validator,
		productRepo:     productRepo,
		stockRecordRepo: stockRecordRepo,
		outboxMsgRepo:   outboxMsgRepo,
		skuLocks:        newKeyedMutex(),
	}
}

func (s *stockRecordService) CheckDuplicate(ctx context.Context, params CheckDuplicateParams) (*model.StockRecord, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	productionDate, err := model.ParseDate(params.ProductionDate)
	if err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	record, err := s.stockRecordRepo.FindDuplicate(ctx, params.Sku, productionDate)
	if err != nil {
		return nil, fmt.Errorf("stock record repository find duplicate: %w", err)
	}

	return record, nil
}

func (s *stockRecordService) DeleteStockRecord(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.stockRecordRepo.DeleteStockRecord(ctx, id)
	if err != nil {
		return false, fmt.Errorf("stock record repository delete stock record: %w", err)
	}

	return deleted, nil
}

func (s *stockRecordService) ListStockRecords(ctx context.Context) ([]model.StockRecordView, error) {
	records, err := s.stockRecordRepo.ListStockRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock record repository list stock records: %w", err)
	}

	now := s.clock.Now()
	views := make([]model.StockRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, s.view(record, now))
	}

	return views, nil
}

func (s *stockRecordService) ListExpiringStockRecords(ctx context.Context, params ListExpiringParams) ([]model.StockRecordView, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	now := params.At
	if now.IsZero() {
		now = s.clock.Now()
	}
	candidatesParams := repository.ListExpiringCandidatesParams{
		Today: s.calc.Today(now),
	}
	if params.Policy == PolicyFixedWindow {
		candidatesParams.WindowDays = &params.WindowDays
	}

	records, err := s.stockRecordRepo.ListExpiringCandidates(ctx, candidatesParams)
	if err != nil {
		return nil, fmt.Errorf("stock record repository list expiring candidates: %w", err)
	}

	views := make([]model.StockRecordView, 0, len(records))
	for _, record := range records {
		v := s.view(record, now)

		threshold := record.ReminderDays
		if params.Policy == PolicyFixedWindow {
			threshold = params.WindowDays
		}
		if v.Status == model.StatusUnset || v.RemainingDays > threshold {
			continue
		}

		views = append(views, v)
	}

	slices.SortStableFunc(views, func(a, b model.StockRecordView) int {
		if c := cmp.Compare(a.RemainingDays, b.RemainingDays); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return views, nil
}

func (s *stockRecordService) PreviewExpiry(_ context.Context, params PreviewExpiryParams) (model.Expiry, error) {
	if err := s.validator.Validate(params); err != nil {
		return model.Expiry{}, apperr.ValidationErr.WrapParent(err)
	}

	productionDate, err := model.ParseDate(params.ProductionDate)
	if err != nil {
		return model.Expiry{}, apperr.ValidationErr.WrapParent(err)
	}

	return s.calc.Compute(productionDate, params.ShelfLifeDays, params.ReminderDays, s.clock.Now()), nil
}

func (s *stockRecordService) view(record model.StockRecord, now time.Time) model.StockRecordView {
	return model.StockRecordView{
		StockRecord: record,
		Expiry:      s.calc.Compute(record.ProductionDate, record.ShelfLifeDays, record.ReminderDays, now),
	}
}
