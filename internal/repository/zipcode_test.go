package repository

import (
	"context"
	"database/sql"
	"testing"

	"pha-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newMemoryZipStore(t *testing.T) *ZipStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := NewZipStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestZipStore_LookupZip(t *testing.T) {
	ctx := context.Background()
	store := newMemoryZipStore(t)

	err := store.UpsertZips(ctx, []ZipRecord{
		{Zip: "78701", City: "Austin", StateCode: "TX", Latitude: 30.2711, Longitude: -97.7437},
		{Zip: "73301", City: "Austin", StateCode: "TX", Latitude: 30.2669, Longitude: -97.7428},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		zip      string
		expected *models.Coordinates
	}{
		{name: "existing zipcode", zip: "78701", expected: &models.Coordinates{Lat: 30.2711, Lon: -97.7437}},
		{name: "non-existent zipcode", zip: "99999", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.LookupZip(ctx, tt.zip)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestZipStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := newMemoryZipStore(t)

	require.NoError(t, store.UpsertZips(ctx, []ZipRecord{{Zip: "12345", City: "Old", StateCode: "NY", Latitude: 1, Longitude: 2}}))
	require.NoError(t, store.UpsertZips(ctx, []ZipRecord{{Zip: "12345", City: "Schenectady", StateCode: "NY", Latitude: 42.81, Longitude: -73.94}}))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.LookupZip(ctx, "12345")
	require.NoError(t, err)
	assert.Equal(t, &models.Coordinates{Lat: 42.81, Lon: -73.94}, got)
}
