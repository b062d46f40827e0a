package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.Equal(t, []string{
		"00001_create_products.sql",
		"00002_create_stock_records.sql",
		"00003_create_outbox_messages.sql",
	}, names)

	t.Run("Should declare up and down sections", func(t *testing.T) {
		for _, name := range names {
			body, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
			require.NoError(t, err)
			assert.Contains(t, string(body), "-- +goose Up", name)
			assert.Contains(t, string(body), "-- +goose Down", name)
		}
	})
}
