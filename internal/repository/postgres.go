package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pha-locator/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// nearestCityMeters bounds how far a ZIP centroid may be from the city it resolves to.
const nearestCityMeters = 80000

const agencyColumns = `
	id,
	name,
	address,
	phone,
	email,
	program_type,
	ST_Y(geom::geometry) as latitude,
	ST_X(geom::geometry) as longitude
`

// Repository reads agencies and gazetteer places from PostgreSQL/PostGIS
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAgencies returns every agency ordered by name, then id
func (r *Repository) ListAgencies(ctx context.Context) ([]models.Agency, error) {
	sql := `SELECT ` + agencyColumns + ` FROM agencies ORDER BY lower(name), id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list agencies: %w", err)
	}
	return collectAgencies(rows)
}

// ListAgenciesPage returns one page of agencies, optionally restricted to a state,
// together with the total number of matching agencies
func (r *Repository) ListAgenciesPage(ctx context.Context, stateCode string, limit, offset int) ([]models.Agency, int, error) {
	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))

	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM agencies WHERE ($1 = '' OR state_code = $1)`,
		stateCode,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to count agencies: %w", err)
	}

	sql := `SELECT ` + agencyColumns + `
		FROM agencies
		WHERE ($1 = '' OR state_code = $1)
		ORDER BY lower(name), id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, sql, stateCode, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository: failed to page agencies: %w", err)
	}
	agencies, err := collectAgencies(rows)
	if err != nil {
		return nil, 0, err
	}
	return agencies, total, nil
}

// GetAgency returns the agency with the given id, or nil if there is none
func (r *Repository) GetAgency(ctx context.Context, id string) (*models.Agency, error) {
	rows, err := r.db.Query(ctx, `SELECT `+agencyColumns+` FROM agencies WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to get agency: %w", err)
	}
	agencies, err := collectAgencies(rows)
	if err != nil {
		return nil, err
	}
	if len(agencies) == 0 {
		return nil, nil
	}
	return &agencies[0], nil
}

func collectAgencies(rows pgx.Rows) ([]models.Agency, error) {
	defer rows.Close()

	agencies := []models.Agency{}
	for rows.Next() {
		var a models.Agency
		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Address,
			&a.Phone,
			&a.Email,
			&a.ProgramType,
			&a.Latitude,
			&a.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan agency: %w", err)
		}
		agencies = append(agencies, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return agencies, nil
}

// SearchPlaces finds cities and counties whose name starts with, or contains the words
// of, query. An empty stateCode searches every state.
func (r *Repository) SearchPlaces(ctx context.Context, query, stateCode string, limit int) ([]models.Place, error) {
	sql := `
		SELECT
			id,
			name,
			type,
			state_code,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM places
		WHERE (name ILIKE $1 || '%' OR name_tsvector @@ plainto_tsquery('simple', $1))
			AND ($2 = '' OR state_code = $2)
		ORDER BY lower(name) = lower($1) DESC,
			ts_rank(name_tsvector, plainto_tsquery('simple', $1)) DESC,
			name,
			state_code
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, sql, query, strings.ToUpper(stateCode), limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		var p models.Place
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Type,
			&p.StateCode,
			&p.Latitude,
			&p.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan place: %w", err)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return places, nil
}

// NearestCity performs a spatial query for the city closest to the given coordinates.
// It returns nil when no city lies within range.
func (r *Repository) NearestCity(ctx context.Context, lat, lon float64) (*models.Place, error) {
	sql := `
		SELECT
			id,
			name,
			type,
			state_code,
			ST_Y(geom::geometry) as latitude,
			ST_X(geom::geometry) as longitude
		FROM places
		WHERE type = 'city'
			AND ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT 1
	`

	var p models.Place
	err := r.db.QueryRow(ctx, sql, lat, lon, nearestCityMeters).Scan(
		&p.ID,
		&p.Name,
		&p.Type,
		&p.StateCode,
		&p.Latitude,
		&p.Longitude,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}

	return &p, nil
}
