package apicontract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/shelflife/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load()
	require.NoError(t, err)

	t.Run("Should describe every API route", func(t *testing.T) {
		paths := []string{
			"/api/v1/products",
			"/api/v1/products/{id}",
			"/api/v1/records",
			"/api/v1/records/expiring",
			"/api/v1/records/check-duplicate",
			"/api/v1/records/preview",
			"/api/v1/records/{id}",
			"/healthz",
		}
		for _, p := range paths {
			assert.NotNil(t, doc.Paths.Find(p), p)
		}
	})

	t.Run("Should document duplicate admission as conflict", func(t *testing.T) {
		op := doc.Paths.Find("/api/v1/records").Post
		require.NotNil(t, op)
		assert.NotNil(t, op.Responses.Status(409))
	})
}
