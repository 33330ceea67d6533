package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the agency and gazetteer tables. It is idempotent.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS agencies (
		id TEXT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(512) NOT NULL DEFAULT '',
		phone VARCHAR(64),
		email VARCHAR(255),
		program_type VARCHAR(128),
		state_code CHAR(2),
		geom GEOGRAPHY(POINT, 4326)
	);
	CREATE INDEX IF NOT EXISTS agencies_state_code_idx ON agencies (state_code);
	CREATE INDEX IF NOT EXISTS agencies_name_idx ON agencies (lower(name), id);

	CREATE TABLE IF NOT EXISTS places (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(16) NOT NULL CHECK (type IN ('city', 'county')),
		state_code CHAR(2) NOT NULL,
		name_tsvector TSVECTOR GENERATED ALWAYS AS (to_tsvector('simple', name)) STORED,
		geom GEOGRAPHY(POINT, 4326) NOT NULL
	);
	CREATE INDEX IF NOT EXISTS places_geom_idx ON places USING GIST (geom);
	CREATE INDEX IF NOT EXISTS places_name_tsvector_idx ON places USING GIN (name_tsvector);
`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to apply schema: %w", err)
	}
	return nil
}
