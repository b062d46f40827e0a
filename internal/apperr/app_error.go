package apperr

import "github.com/tuanvumaihuynh/shelflife/pkg/zerror"

const (
	ValidationErrorCode      = "VALIDATION_FAILED"
	DuplicateSkuErrorCode    = "DUPLICATE_SKU"
	ProductNotFoundErrorCode = "PRODUCT_NOT_FOUND"
	DuplicateRecordErrorCode = "DUPLICATE_RECORD"
	NotFoundErrorCode        = "NOT_FOUND"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	DuplicateSkuErr = zerror.NewConflict(DuplicateSkuErrorCode, "a product with this sku already exists")

	// ProductNotFoundErr is returned when a stock record references a sku missing from the catalog.
	ProductNotFoundErr = zerror.NewUnprocessableEntity(ProductNotFoundErrorCode, "no product with this sku in the catalog")

	// DuplicateRecordErr is a soft block: the caller may retry with force.
	DuplicateRecordErr = zerror.NewConflict(DuplicateRecordErrorCode, "a stock record with this sku and production date already exists")

	NotFoundErr = zerror.NewNotFound(NotFoundErrorCode, "resource not found")
)
