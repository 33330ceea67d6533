//go:build integration

package repository

import (
	"context"
	"testing"

	"pha-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	// Start PostgreSQL container with PostGIS
	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	require.NoError(t, EnsureSchema(ctx, pool))

	_, err = pool.Exec(ctx, `
		INSERT INTO agencies (id, name, address, phone, state_code, geom) VALUES
		('tx-austin', 'Housing Authority of the City of Austin', '1124 S IH 35, Austin, TX 78704', '512-477-4488', 'TX',
			ST_SetSRID(ST_MakePoint(-97.7400, 30.2500), 4326)),
		('tx-dallas', 'Dallas Housing Authority', '3939 N Hampton Rd, Dallas, TX 75212', NULL, 'TX',
			ST_SetSRID(ST_MakePoint(-96.8700, 32.7800), 4326)),
		('ca-fresno', 'Fresno Housing', '1331 Fulton St, Fresno, CA 93721', NULL, 'CA', NULL);

		INSERT INTO places (name, type, state_code, geom) VALUES
		('Austin', 'city', 'TX', ST_SetSRID(ST_MakePoint(-97.7431, 30.2672), 4326)),
		('Austin', 'city', 'MN', ST_SetSRID(ST_MakePoint(-92.9746, 43.6666), 4326)),
		('Travis County', 'county', 'TX', ST_SetSRID(ST_MakePoint(-97.78, 30.33), 4326)),
		('Dallas', 'city', 'TX', ST_SetSRID(ST_MakePoint(-96.7970, 32.7767), 4326));
	`)
	require.NoError(t, err)

	return pool
}

func TestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	t.Run("list agencies ordered by name", func(t *testing.T) {
		agencies, err := repo.ListAgencies(ctx)
		require.NoError(t, err)
		require.Len(t, agencies, 3)
		assert.Equal(t, "tx-dallas", agencies[0].ID)
		assert.Equal(t, "ca-fresno", agencies[1].ID)
		assert.Nil(t, agencies[1].Latitude)
		require.NotNil(t, agencies[2].Phone)
		assert.Equal(t, "512-477-4488", *agencies[2].Phone)
		assert.InDelta(t, 30.25, *agencies[2].Latitude, 1e-6)
	})

	t.Run("page agencies by state", func(t *testing.T) {
		agencies, total, err := repo.ListAgenciesPage(ctx, "tx", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, agencies, 1)
		assert.Equal(t, "tx-austin", agencies[0].ID)
	})

	t.Run("get agency", func(t *testing.T) {
		agency, err := repo.GetAgency(ctx, "ca-fresno")
		require.NoError(t, err)
		require.NotNil(t, agency)
		assert.Equal(t, "Fresno Housing", agency.Name)

		missing, err := repo.GetAgency(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("search places", func(t *testing.T) {
		tests := []struct {
			name      string
			query     string
			stateCode string
			expected  []string
		}{
			{name: "ambiguous city", query: "austin", expected: []string{"Austin,MN", "Austin,TX"}},
			{name: "restricted to state", query: "Austin", stateCode: "tx", expected: []string{"Austin,TX"}},
			{name: "county by word", query: "Travis", expected: []string{"Travis County,TX"}},
			{name: "no results", query: "nonexistent", expected: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				places, err := repo.SearchPlaces(ctx, tt.query, tt.stateCode, 10)
				require.NoError(t, err)
				got := []string{}
				for _, p := range places {
					got = append(got, p.Name+","+p.StateCode)
				}
				assert.Equal(t, tt.expected, got)
			})
		}
	})

	t.Run("nearest city", func(t *testing.T) {
		city, err := repo.NearestCity(ctx, 30.2711, -97.7437)
		require.NoError(t, err)
		require.NotNil(t, city)
		assert.Equal(t, "Austin", city.Name)
		assert.Equal(t, models.LocationCity, city.Type)

		none, err := repo.NearestCity(ctx, 0, 0)
		require.NoError(t, err)
		assert.Nil(t, none)
	})
}
