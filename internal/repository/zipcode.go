package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pha-locator/internal/models"

	_ "modernc.org/sqlite"
)

// ZipRecord is one row of the ZIP centroid table.
type ZipRecord struct {
	Zip       string
	City      string
	StateCode string
	Latitude  float64
	Longitude float64
}

// ZipStore maps ZIP codes to centroids using a local SQLite database
type ZipStore struct {
	db *sql.DB
}

// OpenZipStore opens (creating if needed) the SQLite ZIP database at path
func OpenZipStore(ctx context.Context, path string) (*ZipStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open zipcode database: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=10000;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: failed to configure zipcode database: %w", err)
	}

	store := NewZipStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewZipStore wraps an already open database
func NewZipStore(db *sql.DB) *ZipStore {
	return &ZipStore{db: db}
}

// EnsureSchema creates the zipcodes table
func (s *ZipStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS zipcodes (
			zipcode TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("repository: failed to create zipcodes table: %w", err)
	}
	return nil
}

// LookupZip returns the centroid of zip, or nil if the code is unknown
func (s *ZipStore) LookupZip(ctx context.Context, zip string) (*models.Coordinates, error) {
	var c models.Coordinates
	err := s.db.QueryRowContext(ctx,
		"SELECT latitude, longitude FROM zipcodes WHERE zipcode = ?",
		zip,
	).Scan(&c.Lat, &c.Lon)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query zipcode: %w", err)
	}
	return &c, nil
}

// UpsertZips writes records in a single transaction
func (s *ZipStore) UpsertZips(ctx context.Context, records []ZipRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO zipcodes (zipcode, city, state, latitude, longitude)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(zipcode) DO UPDATE SET
			city = excluded.city,
			state = excluded.state,
			latitude = excluded.latitude,
			longitude = excluded.longitude
	`)
	if err != nil {
		return fmt.Errorf("repository: failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Zip, r.City, r.StateCode, r.Latitude, r.Longitude); err != nil {
			return fmt.Errorf("repository: failed to insert zipcode %s: %w", r.Zip, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: failed to commit zipcodes: %w", err)
	}
	return nil
}

// Count returns the number of stored ZIP codes
func (s *ZipStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM zipcodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count zipcodes: %w", err)
	}
	return n, nil
}

// Close closes the underlying database
func (s *ZipStore) Close() error {
	return s.db.Close()
}
