package apierr

import (
	"errors"
	"fmt"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/pkg/validator"
	"github.com/tuanvumaihuynh/shelflife/pkg/zerror"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`
	// Data carries the payload of errors implementing DataError.
	Data any `json:"data,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

// DataError is implemented by errors that expose a payload to the client,
// such as the existing record behind a duplicate block.
type DataError interface {
	error
	ErrorData() any
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       "INTERNAL_SERVER_ERROR",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		res := ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			Details:    fieldErrors(err),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}

		var dataErr DataError
		if errors.As(err, &dataErr) {
			res.Data = dataErr.ErrorData()
		}

		return res
	}

	if details := fieldErrors(err); details != nil {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    "validation error",
			Details:    details,
			StatusCode: http.StatusBadRequest,
		}
	}

	if isRequestBindingErr(err) {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

func fieldErrors(err error) *[]FieldError {
	var validationErrs govalidator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	details := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		details[i] = FieldError{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		}
	}

	return &details
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// InvalidParamFormatError is returned when a path or query parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// RequiredParamError is returned when a required query parameter is missing.
type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("query argument %s is required, but not found", e.ParamName)
}

// UnmarshalingBodyError is returned when the request body is not valid JSON for the operation.
type UnmarshalingBodyError struct {
	Err error
}

func (e *UnmarshalingBodyError) Error() string {
	return fmt.Sprintf("can't decode JSON body: %s", e.Err.Error())
}

func (e *UnmarshalingBodyError) Unwrap() error {
	return e.Err
}

func isRequestBindingErr(err error) bool {
	var (
		e1 *InvalidParamFormatError
		e2 *RequiredParamError
		e3 *UnmarshalingBodyError
	)

	return errors.As(err, &e1) ||
		errors.As(err, &e2) ||
		errors.As(err, &e3)
}
