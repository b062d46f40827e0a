package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type UpdateProductParams struct {
	Name          string
	ShelfLifeDays int
	ReminderDays  int
	Location      string
	UpdatedAt     time.Time
}

type ListProductsParams struct {
	// Query matches a substring of the sku or name, case-insensitively. Empty matches all.
	Query string
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductBySku(ctx context.Context, sku string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

const productColumns = `id, sku, name, shelf_life_days, reminder_days, location, created_at, updated_at`

type productRow struct {
	ID            uuid.UUID `db:"id"`
	Sku           string    `db:"sku"`
	Name          string    `db:"name"`
	ShelfLifeDays int       `db:"shelf_life_days"`
	ReminderDays  int       `db:"reminder_days"`
	Location      string    `db:"location"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row productRow) toModel() model.Product {
	return model.Product(row)
}

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (@id, @sku, @name, @shelf_life_days, @reminder_days, @location, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":              product.ID,
		"sku":             product.Sku,
		"name":            product.Name,
		"shelf_life_days": product.ShelfLifeDays,
		"reminder_days":   product.ReminderDays,
		"location":        product.Location,
		"created_at":      product.CreatedAt,
		"updated_at":      product.UpdatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create product: %w", errors.Join(ErrUniqueViolation, err))
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r productRepository) GetProductBySku(ctx context.Context, sku string) (*model.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = @sku`, pgx.NamedArgs{"sku": sku})
}

func (r productRepository) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*model.Product, error) {
	return r.getOne(ctx, `
		UPDATE products
		SET
			name            = @name,
			shelf_life_days = @shelf_life_days,
			reminder_days   = @reminder_days,
			location        = @location,
			updated_at      = @updated_at
		WHERE id = @id
		RETURNING `+productColumns,
		pgx.NamedArgs{
			"id":              id,
			"name":            params.Name,
			"shelf_life_days": params.ShelfLifeDays,
			"reminder_days":   params.ReminderDays,
			"location":        params.Location,
			"updated_at":      params.UpdatedAt,
		})
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE @pattern::text = ''
			OR sku ILIKE '%' || @pattern || '%'
			OR name ILIKE '%' || @pattern || '%'
		ORDER BY sku ASC
	`, pgx.NamedArgs{"pattern": escapeLike(params.Query)})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect product rows: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, row.toModel())
	}

	return products, nil
}

func (r productRepository) getOne(ctx context.Context, query string, args pgx.NamedArgs) (*model.Product, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("collect product row: %w", err)
	}

	product := row.toModel()
	return &product, nil
}
