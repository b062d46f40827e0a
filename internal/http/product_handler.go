package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/pkg/ptr"
)

type productHandler struct {
	catalogSvc service.CatalogService
}

func newProductHandler(catalogSvc service.CatalogService) *productHandler {
	return &productHandler{
		catalogSvc: catalogSvc,
	}
}

// ListProducts lists the catalog. sku narrows to an exact match, q to a
// case-insensitive substring of sku or name.
func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var (
		sku *string
		q   *string
	)
	if err := bindQuery(r, "sku", &sku); err != nil {
		return err
	}
	if err := bindQuery(r, "q", &q); err != nil {
		return err
	}

	var products []model.Product
	if sku != nil {
		product, err := h.catalogSvc.GetProductBySku(r.Context(), *sku)
		if err != nil {
			return fmt.Errorf("catalog service get product by sku: %w", err)
		}
		if product != nil {
			products = append(products, *product)
		}
	} else {
		var err error
		products, err = h.catalogSvc.ListProducts(r.Context(), service.ListProductsParams{
			Query: ptr.Deref(q, ""),
		})
		if err != nil {
			return fmt.Errorf("catalog service list products: %w", err)
		}
	}

	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, newProductResponse(product))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	var body CreateProductRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	product, err := h.catalogSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Sku:           body.Sku,
		Name:          body.Name,
		ShelfLifeDays: body.ShelfLifeDays,
		ReminderDays:  body.ReminderDays,
		Location:      body.Location,
	})
	if err != nil {
		return fmt.Errorf("catalog service create product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, newProductResponse(product))
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindPathID(r)
	if err != nil {
		return err
	}

	product, err := h.catalogSvc.GetProductByID(r.Context(), id)
	if err != nil {
		return fmt.Errorf("catalog service get product by id: %w", err)
	}
	if product == nil {
		return apperr.NotFoundErr.WithMsg("product %s not found", id)
	}

	return writeJSON(w, http.StatusOK, newProductResponse(*product))
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindPathID(r)
	if err != nil {
		return err
	}

	var body UpdateProductRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	product, err := h.catalogSvc.UpdateProduct(r.Context(), id, service.UpdateProductParams{
		Name:          body.Name,
		ShelfLifeDays: body.ShelfLifeDays,
		ReminderDays:  body.ReminderDays,
		Location:      body.Location,
	})
	if err != nil {
		return fmt.Errorf("catalog service update product: %w", err)
	}
	if product == nil {
		return apperr.NotFoundErr.WithMsg("product %s not found", id)
	}

	return writeJSON(w, http.StatusOK, newProductResponse(*product))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := bindPathID(r)
	if err != nil {
		return err
	}

	result, err := h.catalogSvc.DeleteProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("catalog service delete product: %w", err)
	}

	return writeJSON(w, http.StatusOK, DeleteProductResponse{
		Deleted:        result.Deleted,
		RecordsDeleted: result.RecordsDeleted,
	})
}
