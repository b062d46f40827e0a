package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type ListExpiringCandidatesParams struct {
	// Today is the current calendar date in the reference zone.
	Today model.Date
	// WindowDays replaces each record's own reminder days when set.
	WindowDays *int
}

type StockRecordRepository interface {
	WithDB(db db.DB) StockRecordRepository
	// LockSku serializes admissions of a sku until the surrounding transaction ends.
	LockSku(ctx context.Context, sku string) error
	CreateStockRecord(ctx context.Context, record model.StockRecord) error
	DeleteStockRecord(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteStockRecordsBySku(ctx context.Context, sku string) (int64, error)
	FindDuplicate(ctx context.Context, sku string, productionDate model.Date) (*model.StockRecord, error)
	ListStockRecords(ctx context.Context) ([]model.StockRecord, error)
	// ListExpiringCandidates returns records whose expiry date falls within their
	// reminder window (or WindowDays) of Today, ordered by expiry date ascending.
	ListExpiringCandidates(ctx context.Context, params ListExpiringCandidatesParams) ([]model.StockRecord, error)
}

type stockRecordRepository struct {
	db db.DB
}

func NewStockRecordRepository(db db.DB) StockRecordRepository {
	return &stockRecordRepository{
		db: db,
	}
}

func (r stockRecordRepository) WithDB(db db.DB) StockRecordRepository {
	return &stockRecordRepository{
		db: db,
	}
}

const stockRecordColumns = `id, sku, name, location, production_date, shelf_life_days, reminder_days, created_at`

type stockRecordRow struct {
	ID             uuid.UUID   `db:"id"`
	Sku            string      `db:"sku"`
	Name           string      `db:"name"`
	Location       string      `db:"location"`
	ProductionDate pgtype.Date `db:"production_date"`
	ShelfLifeDays  int         `db:"shelf_life_days"`
	ReminderDays   int         `db:"reminder_days"`
	CreatedAt      time.Time   `db:"created_at"`
}

func (row stockRecordRow) toModel() model.StockRecord {
	return model.StockRecord{
		ID:             row.ID,
		Sku:            row.Sku,
		Name:           row.Name,
		Location:       row.Location,
		ProductionDate: model.DateOf(row.ProductionDate.Time, time.UTC),
		ShelfLifeDays:  row.ShelfLifeDays,
		ReminderDays:   row.ReminderDays,
		CreatedAt:      row.CreatedAt,
	}
}

func toPgDate(d model.Date) pgtype.Date {
	return pgtype.Date{Time: d.Midnight(time.UTC), Valid: true}
}

func (r stockRecordRepository) LockSku(ctx context.Context, sku string) error {
	if err := db.AdvisoryXactLock(ctx, r.db, "stock_records:"+sku); err != nil {
		return fmt.Errorf("lock sku: %w", err)
	}
	return nil
}

func (r stockRecordRepository) CreateStockRecord(ctx context.Context, record model.StockRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_records (`+stockRecordColumns+`)
		VALUES (@id, @sku, @name, @location, @production_date, @shelf_life_days, @reminder_days, @created_at)
	`, pgx.NamedArgs{
		"id":              record.ID,
		"sku":             record.Sku,
		"name":            record.Name,
		"location":        record.Location,
		"production_date": toPgDate(record.ProductionDate),
		"shelf_life_days": record.ShelfLifeDays,
		"reminder_days":   record.ReminderDays,
		"created_at":      record.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("create stock record: %w", err)
	}

	return nil
}

func (r stockRecordRepository) DeleteStockRecord(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM stock_records WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete stock record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r stockRecordRepository) DeleteStockRecordsBySku(ctx context.Context, sku string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM stock_records WHERE sku = @sku`, pgx.NamedArgs{"sku": sku})
	if err != nil {
		return 0, fmt.Errorf("delete stock records by sku: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r stockRecordRepository) FindDuplicate(ctx context.Context, sku string, productionDate model.Date) (*model.StockRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+stockRecordColumns+`
		FROM stock_records
		WHERE sku = @sku AND production_date = @production_date
		ORDER BY created_at ASC
		LIMIT 1
	`, pgx.NamedArgs{
		"sku":             sku,
		"production_date": toPgDate(productionDate),
	})
	if err != nil {
		return nil, fmt.Errorf("find duplicate stock record: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[stockRecordRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("collect stock record row: %w", err)
	}

	record := row.toModel()
	return &record, nil
}

func (r stockRecordRepository) ListStockRecords(ctx context.Context) ([]model.StockRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+stockRecordColumns+`
		FROM stock_records
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}

	return collectStockRecords(rows)
}

func (r stockRecordRepository) ListExpiringCandidates(ctx context.Context, params ListExpiringCandidatesParams) ([]model.StockRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+stockRecordColumns+`
		FROM stock_records
		WHERE expiry_date - COALESCE(@window_days::int, reminder_days) <= @today
		ORDER BY expiry_date ASC, created_at DESC
	`, pgx.NamedArgs{
		"window_days": params.WindowDays,
		"today":       toPgDate(params.Today),
	})
	if err != nil {
		return nil, fmt.Errorf("list expiring stock records: %w", err)
	}

	return collectStockRecords(rows)
}

func collectStockRecords(rows pgx.Rows) ([]model.StockRecord, error) {
	recordRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[stockRecordRow])
	if err != nil {
		return nil, fmt.Errorf("collect stock record rows: %w", err)
	}

	records := make([]model.StockRecord, 0, len(recordRows))
	for _, row := range recordRows {
		records = append(records, row.toModel())
	}

	return records, nil
}
