package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

type stockRecordHandler struct {
	stockRecordSvc service.StockRecordService
}

func newStockRecordHandler(stockRecordSvc service.StockRecordService) *stockRecordHandler {
	return &stockRecordHandler{
		stockRecordSvc: stockRecordSvc,
	}
}

func (h *stockRecordHandler) ListStockRecords(w http.ResponseWriter, r *http.Request) error {
	views, err := h.stockRecordSvc.ListStockRecords(r.Context())
	if err != nil {
		return fmt.Errorf("stock record service list stock records: %w", err)
	}

	return writeJSON(w, http.StatusOK, newStockRecordResponses(views))
}

// ListExpiringStockRecords uses each record's reminder days unless window is given.
func (h *stockRecordHandler) ListExpiringStockRecords(w http.ResponseWriter, r *http.Request) error {
	var window *int
	if err := bindQuery(r, "window", &window); err != nil {
		return err
	}

	params := service.ListExpiringParams{Policy: service.PolicyRecordReminder}
	if window != nil {
		params.Policy = service.PolicyFixedWindow
		params.WindowDays = *window
	}

	views, err := h.stockRecordSvc.ListExpiringStockRecords(r.Context(), params)
	if err != nil {
		return fmt.Errorf("stock record service list expiring stock records: %w", err)
	}

	return writeJSON(w, http.StatusOK, newStockRecordResponses(views))
}

func (h *stockRecordHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) error {
	var sku, productionDate string
	if err := bindRequiredQuery(r, "sku", &sku); err != nil {
		return err
	}
	if err := bindRequiredQuery(r, "production_date", &productionDate); err != nil {
		return err
	}

	existing, err := h.stockRecordSvc.CheckDuplicate(r.Context(), service.CheckDuplicateParams{
		Sku:            sku,
		ProductionDate: productionDate,
	})
	if err != nil {
		return fmt.Errorf("stock record service check duplicate: %w", err)
	}

	return writeJSON(w, http.StatusOK, CheckDuplicateResponse{
		Exists:   existing != nil,
		Existing: existing,
	})
}

// SubmitStockRecord answers 409 with the existing record in data when a
// duplicate blocks the admission and force is false.
func (h *stockRecordHandler) SubmitStockRecord(w http.ResponseWriter, r *http.Request) error {
	var body SubmitStockRecordRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	view, err := h.stockRecordSvc.SubmitStockRecord(r.Context(), service.SubmitStockRecordParams{
		Sku:            body.Sku,
		ProductionDate: body.ProductionDate,
		ShelfLifeDays:  body.ShelfLifeDays,
		ReminderDays:   body.ReminderDays,
		Force:          body.Force,
	})
	if err != nil {
		return fmt.Errorf("stock record service submit stock record: %w", err)
	}

	return writeJSON(w, http.StatusCreated, newStockRecordResponse(view))
}

func (h *stockRecordHandler) DeleteStockRecord(w http.ResponseWriter, r *http.Request) error {
	id, err := bindPathID(r)
	if err != nil {
		return err
	}

	deleted, err := h.stockRecordSvc.DeleteStockRecord(r.Context(), id)
	if err != nil {
		return fmt.Errorf("stock record service delete stock record: %w", err)
	}

	return writeJSON(w, http.StatusOK, DeleteStockRecordResponse{Deleted: deleted})
}

func (h *stockRecordHandler) PreviewExpiry(w http.ResponseWriter, r *http.Request) error {
	var (
		productionDate string
		shelfLifeDays  int
		reminderDays   *int
	)
	if err := bindRequiredQuery(r, "production_date", &productionDate); err != nil {
		return err
	}
	if err := bindRequiredQuery(r, "shelf_life_days", &shelfLifeDays); err != nil {
		return err
	}
	if err := bindQuery(r, "reminder_days", &reminderDays); err != nil {
		return err
	}

	params := service.PreviewExpiryParams{
		ProductionDate: productionDate,
		ShelfLifeDays:  shelfLifeDays,
	}
	if reminderDays != nil {
		params.ReminderDays = *reminderDays
	}

	exp, err := h.stockRecordSvc.PreviewExpiry(r.Context(), params)
	if err != nil {
		return fmt.Errorf("stock record service preview expiry: %w", err)
	}

	return writeJSON(w, http.StatusOK, newExpiryResponse(exp))
}
