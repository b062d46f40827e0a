package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/clock"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/validator"
)

type CreateProductParams struct {
	Sku           string `validate:"required,sku"`
	Name          string `validate:"required,max=200"`
	ShelfLifeDays int    `validate:"gt=0,lte=36500"`
	ReminderDays  int    `validate:"gte=0,lte=36500"`
	Location      string `validate:"required,max=100"`
}

// UpdateProductParams holds the editable fields of a product. The sku cannot change.
type UpdateProductParams struct {
	Name          string `validate:"required,max=200"`
	ShelfLifeDays int    `validate:"gt=0,lte=36500"`
	ReminderDays  int    `validate:"gte=0,lte=36500"`
	Location      string `validate:"required,max=100"`
}

type ListProductsParams struct {
	Query string `validate:"max=200"`
}

type DeleteProductResult struct {
	ID             uuid.UUID
	Deleted        bool
	RecordsDeleted int64
}

type CatalogService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	// GetProductBySku returns nil when no product has the sku.
	GetProductBySku(ctx context.Context, sku string) (*model.Product, error)
	// GetProductByID returns nil when no product has the id.
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// UpdateProduct returns nil when no product has the id.
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*model.Product, error)
	// DeleteProduct is destructive: it cascades to every stock record with the
	// product's sku before removing the product itself.
	DeleteProduct(ctx context.Context, id uuid.UUID) (DeleteProductResult, error)
	// ListProducts returns products ordered by sku ascending.
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
}

type catalogService struct {
	db              db.DB
	clock           clock.Clock
	validator       validator.Validator
	productRepo     repository.ProductRepository
	stockRecordRepo repository.StockRecordRepository
	outboxMsgRepo   repository.OutboxMsgRepository
}

func NewCatalogService(
	db db.DB,
	clock clock.Clock,
	validator validator.Validator,
	productRepo repository.ProductRepository,
	stockRecordRepo repository.StockRecordRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) CatalogService {
	return &catalogService{
		db:              db,
		clock:           clock,
		validator:       validator,
		productRepo:     productRepo,
		stockRecordRepo: stockRecordRepo,
		outboxMsgRepo:   outboxMsgRepo,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	params.Name = normalizeText(params.Name)
	params.Location = normalizeText(params.Location)
	if err := s.validator.Validate(params); err != nil {
		return model.Product{}, apperr.ValidationErr.WrapParent(err)
	}

	existing, err := s.productRepo.GetProductBySku(ctx, params.Sku)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product by sku: %w", err)
	}
	if existing != nil {
		return model.Product{}, apperr.DuplicateSkuErr
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.clock.Now()
	product := model.Product{
		ID:            id,
		Sku:           params.Sku,
		Name:          params.Name,
		ShelfLifeDays: params.ShelfLifeDays,
		ReminderDays:  params.ReminderDays,
		Location:      params.Location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return model.Product{}, apperr.DuplicateSkuErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *catalogService) GetProductBySku(ctx context.Context, sku string) (*model.Product, error) {
	product, err := s.productRepo.GetProductBySku(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("product repository get product by sku: %w", err)
	}

	return product, nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product repository get product by id: %w", err)
	}

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*model.Product, error) {
	params.Name = normalizeText(params.Name)
	params.Location = normalizeText(params.Location)
	if err := s.validator.Validate(params); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	product, err := s.productRepo.UpdateProduct(ctx, id, repository.UpdateProductParams{
		Name:          params.Name,
		ShelfLifeDays: params.ShelfLifeDays,
		ReminderDays:  params.ReminderDays,
		Location:      params.Location,
		UpdatedAt:     s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("product repository update product: %w", err)
	}

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) (DeleteProductResult, error) {
	result := DeleteProductResult{ID: id}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		productRepo := s.productRepo.WithDB(db)
		stockRecordRepo := s.stockRecordRepo.WithDB(db)

		product, err := productRepo.GetProductByID(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository get product by id: %w", err)
		}
		if product == nil {
			return nil
		}

		// keeps a concurrent admission from inserting a record for the sku mid-delete
		if err := stockRecordRepo.LockSku(ctx, product.Sku); err != nil {
			return fmt.Errorf("stock record repository lock sku: %w", err)
		}

		recordsDeleted, err := stockRecordRepo.DeleteStockRecordsBySku(ctx, product.Sku)
		if err != nil {
			return fmt.Errorf("stock record repository delete stock records by sku: %w", err)
		}

		deleted, err := productRepo.DeleteProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}
		if !deleted {
			return nil
		}

		if err := EnqueueEvent(ctx, s.outboxMsgRepo.WithDB(db), event.TopicProductDeleted, product.Sku, event.ProductDeletedEvent{
			ProductID:      product.ID.String(),
			Sku:            product.Sku,
			RecordsDeleted: recordsDeleted,
		}); err != nil {
			return err
		}

		result.Deleted = true
		result.RecordsDeleted = recordsDeleted
		return nil
	}); err != nil {
		return DeleteProductResult{}, fmt.Errorf("db with tx: %w", err)
	}

	return result, nil
}

func (s *catalogService) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	params.Query = normalizeText(params.Query)
	if err := s.validator.Validate(params); err != nil {
		return nil, apperr.ValidationErr.WrapParent(err)
	}

	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Query: params.Query,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}
