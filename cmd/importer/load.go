package main

import (
	"context"
	"errors"
	"fmt"

	"pha-locator/internal/models"
	"pha-locator/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// connectDB is swapped out in tests.
var connectDB = connect

// connect opens a pool and applies the schema. Call it once per run and share the
// pool: concurrent CREATE EXTENSION/TABLE IF NOT EXISTS can fail on a fresh database.
func connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// geom renders a PostGIS EWKT point (lon lat order) or nil.
func geom(lat, lon *float64) any {
	if lat == nil || lon == nil {
		return nil
	}
	return fmt.Sprintf("SRID=4326;POINT(%f %f)", *lon, *lat)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// replaceTable truncates table and bulk-loads rows in one transaction.
func replaceTable(ctx context.Context, pool *pgxpool.Pool, table string, columns []string, rows pgx.CopyFromSource) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{table}.Sanitize()); err != nil {
		return 0, fmt.Errorf("failed to truncate %s: %w", table, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to copy into %s: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return n, nil
}

func importAgencies(ctx context.Context, pool *pgxpool.Pool, records []AgencyRecord) error {
	n, err := replaceTable(ctx, pool, "agencies",
		[]string{"id", "name", "address", "phone", "email", "program_type", "state_code", "geom"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.ID, r.Name, r.Address, r.Phone, r.Email, r.ProgramType, nullable(r.StateCode), geom(r.Latitude, r.Longitude)}, nil
		}),
	)
	if err != nil {
		return err
	}
	return verifyImport(ctx, pool, "agencies", n)
}

func importPlaces(ctx context.Context, pool *pgxpool.Pool, records []models.Place) error {
	n, err := replaceTable(ctx, pool, "places",
		[]string{"name", "type", "state_code", "geom"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			p := records[i]
			return []any{p.Name, string(p.Type), p.StateCode, geom(&p.Latitude, &p.Longitude)}, nil
		}),
	)
	if err != nil {
		return err
	}
	return verifyImport(ctx, pool, "places", n)
}

func importZipcodes(ctx context.Context, path string, records []repository.ZipRecord) error {
	store, err := repository.OpenZipStore(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpsertZips(ctx, records); err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("upserted", len(records)).Int("total", total).Msg("imported zipcodes")
	return nil
}

func verifyImport(ctx context.Context, pool *pgxpool.Pool, table string, expected int64) error {
	var count int64
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	if count != expected {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expected, count)
	}

	var sample *string
	err = pool.QueryRow(ctx, "SELECT ST_AsText(geom) FROM "+pgx.Identifier{table}.Sanitize()+" WHERE geom IS NOT NULL LIMIT 1").Scan(&sample)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check geom: %w", err)
	}

	ev := log.Info().Str("table", table).Int64("records", count)
	if sample != nil {
		ev = ev.Str("sample_geom", *sample)
	}
	ev.Msg("import verified")
	return nil
}
