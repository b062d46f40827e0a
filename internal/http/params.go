package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/shelflife/internal/http/apierr"
)

func bindPathID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return uuid.Nil, &apierr.InvalidParamFormatError{ParamName: "id", Err: err}
	}

	return id, nil
}

// bindQuery binds an optional query parameter; dest should be a pointer to a pointer.
func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return &apierr.InvalidParamFormatError{ParamName: name, Err: err}
	}

	return nil
}

func bindRequiredQuery(r *http.Request, name string, dest any) error {
	if !r.URL.Query().Has(name) {
		return &apierr.RequiredParamError{ParamName: name}
	}

	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), dest); err != nil {
		return &apierr.InvalidParamFormatError{ParamName: name, Err: err}
	}

	return nil
}

func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		return &apierr.UnmarshalingBodyError{Err: err}
	}

	return nil
}
