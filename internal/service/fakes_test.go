package service_test

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/shelflife/internal/clock"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/validator"
)

var utc8 = clock.Zone(8 * time.Hour)

// fakeDB runs transactions inline; only WithTx is implemented.
type fakeDB struct {
	db.DB
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

// memStore backs all fake repositories. failOn makes the named operation return the error.
type memStore struct {
	mu       sync.Mutex
	products []model.Product
	records  []model.StockRecord
	outbox   []repository.CreateOutboxMsgParams
	failOn   map[string]error
}

func newMemStore() *memStore {
	return &memStore{failOn: map[string]error{}}
}

func (s *memStore) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failOn[op]
}

func (s *memStore) recordsBySku(sku string) []model.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockRecord
	for _, r := range s.records {
		if r.Sku == sku {
			out = append(out, r)
		}
	}
	return out
}

func (s *memStore) topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.outbox))
	for _, m := range s.outbox {
		out = append(out, m.Topic)
	}
	return out
}

type fakeProductRepo struct{ s *memStore }

func (r fakeProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r fakeProductRepo) CreateProduct(_ context.Context, product model.Product) error {
	if err := r.s.fail("CreateProduct"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = append(r.s.products, product)
	return nil
}

func (r fakeProductRepo) find(match func(model.Product) bool) *model.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if match(p) {
			return &p
		}
	}
	return nil
}

func (r fakeProductRepo) GetProductByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return r.find(func(p model.Product) bool { return p.ID == id }), nil
}

func (r fakeProductRepo) GetProductBySku(_ context.Context, sku string) (*model.Product, error) {
	if err := r.s.fail("GetProductBySku"); err != nil {
		return nil, err
	}
	return r.find(func(p model.Product) bool { return p.Sku == sku }), nil
}

func (r fakeProductRepo) UpdateProduct(_ context.Context, id uuid.UUID, params repository.UpdateProductParams) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, p := range r.s.products {
		if p.ID == id {
			p.Name = params.Name
			p.ShelfLifeDays = params.ShelfLifeDays
			p.ReminderDays = params.ReminderDays
			p.Location = params.Location
			p.UpdatedAt = params.UpdatedAt
			r.s.products[i] = p
			return &p, nil
		}
	}
	return nil, nil
}

func (r fakeProductRepo) DeleteProduct(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.products)
	r.s.products = slices.DeleteFunc(r.s.products, func(p model.Product) bool { return p.ID == id })
	return len(r.s.products) < before, nil
}

func (r fakeProductRepo) ListProducts(_ context.Context, _ repository.ListProductsParams) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Clone(r.s.products)
	slices.SortFunc(out, func(a, b model.Product) int {
		if a.Sku < b.Sku {
			return -1
		}
		if a.Sku > b.Sku {
			return 1
		}
		return 0
	})
	return out, nil
}

type fakeStockRecordRepo struct{ s *memStore }

func (r fakeStockRecordRepo) WithDB(db.DB) repository.StockRecordRepository { return r }

func (r fakeStockRecordRepo) LockSku(context.Context, string) error {
	return r.s.fail("LockSku")
}

func (r fakeStockRecordRepo) CreateStockRecord(_ context.Context, record model.StockRecord) error {
	if err := r.s.fail("CreateStockRecord"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.records = append(r.s.records, record)
	return nil
}

func (r fakeStockRecordRepo) DeleteStockRecord(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.records)
	r.s.records = slices.DeleteFunc(r.s.records, func(rec model.StockRecord) bool { return rec.ID == id })
	return len(r.s.records) < before, nil
}

func (r fakeStockRecordRepo) DeleteStockRecordsBySku(_ context.Context, sku string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.records)
	r.s.records = slices.DeleteFunc(r.s.records, func(rec model.StockRecord) bool { return rec.Sku == sku })
	return int64(before - len(r.s.records)), nil
}

func (r fakeStockRecordRepo) FindDuplicate(_ context.Context, sku string, productionDate model.Date) (*model.StockRecord, error) {
	r.s.mu.Lock()
	var found *model.StockRecord
	for _, rec := range r.s.records {
		if rec.Sku == sku && rec.ProductionDate == productionDate {
			found = &rec
			break
		}
	}
	r.s.mu.Unlock()

	// widen the window between check and insert so unserialized admissions would race
	runtime.Gosched()
	time.Sleep(time.Millisecond)

	return found, nil
}

func (r fakeStockRecordRepo) ListStockRecords(context.Context) ([]model.StockRecord, error) {
	if err := r.s.fail("ListStockRecords"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Clone(r.s.records)
	slices.Reverse(out)
	return out, nil
}

func (r fakeStockRecordRepo) ListExpiringCandidates(_ context.Context, params repository.ListExpiringCandidatesParams) ([]model.StockRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.StockRecord
	for _, rec := range r.s.records {
		threshold := rec.ReminderDays
		if params.WindowDays != nil {
			threshold = *params.WindowDays
		}
		if rec.ProductionDate.AddDays(rec.ShelfLifeDays-threshold).Compare(params.Today) <= 0 {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, func(a, b model.StockRecord) int {
		return a.ProductionDate.AddDays(a.ShelfLifeDays).Compare(b.ProductionDate.AddDays(b.ShelfLifeDays))
	})
	return out, nil
}

type fakeOutboxMsgRepo struct{ s *memStore }

func (r fakeOutboxMsgRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r fakeOutboxMsgRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, params)
	return nil
}

func (r fakeOutboxMsgRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r fakeOutboxMsgRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

type fixture struct {
	store       *memStore
	clock       clock.Clock
	catalog     service.CatalogService
	stockRecord service.StockRecordService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	store := newMemStore()
	c := clock.Fixed(now)
	dbClient := &fakeDB{}
	productRepo := fakeProductRepo{s: store}
	stockRecordRepo := fakeStockRecordRepo{s: store}
	outboxMsgRepo := fakeOutboxMsgRepo{s: store}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		store:       store,
		clock:       c,
		catalog:     service.NewCatalogService(dbClient, c, v, productRepo, stockRecordRepo, outboxMsgRepo),
		stockRecord: service.NewStockRecordService(dbClient, logger, c, v, productRepo, stockRecordRepo, outboxMsgRepo),
	}
}

func (f *fixture) milk(t *testing.T) model.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), service.CreateProductParams{
		Sku:           "A1B2C",
		Name:          "Milk",
		ShelfLifeDays: 10,
		ReminderDays:  3,
		Location:      "A1",
	})
	require.NoError(t, err)
	return p
}
