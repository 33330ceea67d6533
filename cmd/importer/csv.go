package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pha-locator/internal/matcher"
	"pha-locator/internal/models"
	"pha-locator/internal/repository"
)

// AgencyRecord is one agency row plus the state code parsed from its address.
type AgencyRecord struct {
	models.Agency
	StateCode string
}

// header maps lower-cased column names to their index.
type header map[string]int

func readHeader(reader *csv.Reader, required ...string) (header, error) {
	row, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return h, nil
}

func (h header) get(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (h header) optional(record []string, name string) *string {
	if v := h.get(record, name); v != "" {
		return &v
	}
	return nil
}

func (h header) float(record []string, name string) (*float64, error) {
	v := h.get(record, name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", name, v)
	}
	return &f, nil
}

// forEachRow reads rows until EOF, numbering them from 2 to match the file's line numbers.
func forEachRow(reader *csv.Reader, fn func(line int, record []string) error) error {
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if err := fn(line, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

// parseAgencies reads id,name,address,phone,email,program_type,latitude,longitude.
// Only id and name are required; coordinates must be given together or not at all.
func parseAgencies(r io.Reader) ([]AgencyRecord, error) {
	reader := newReader(r)
	h, err := readHeader(reader, "id", "name")
	if err != nil {
		return nil, err
	}

	var records []AgencyRecord
	seen := make(map[string]bool)
	err = forEachRow(reader, func(_ int, record []string) error {
		id := h.get(record, "id")
		name := h.get(record, "name")
		if id == "" || name == "" {
			return errors.New("id and name are required")
		}
		if seen[id] {
			return fmt.Errorf("duplicate id %s", id)
		}
		seen[id] = true

		lat, err := h.float(record, "latitude")
		if err != nil {
			return err
		}
		lon, err := h.float(record, "longitude")
		if err != nil {
			return err
		}
		if (lat == nil) != (lon == nil) {
			return errors.New("latitude and longitude must both be set or both be empty")
		}

		a := AgencyRecord{Agency: models.Agency{
			ID:          id,
			Name:        name,
			Address:     h.get(record, "address"),
			Phone:       h.optional(record, "phone"),
			Email:       h.optional(record, "email"),
			ProgramType: h.optional(record, "program_type"),
			Latitude:    lat,
			Longitude:   lon,
		}}
		if code, ok := matcher.ParseState(a.Address); ok {
			a.StateCode = code
		}
		records = append(records, a)
		return nil
	})
	return records, err
}

// parsePlaces reads name,type,state_code,latitude,longitude.
func parsePlaces(r io.Reader) ([]models.Place, error) {
	reader := newReader(r)
	h, err := readHeader(reader, "name", "type", "state_code", "latitude", "longitude")
	if err != nil {
		return nil, err
	}

	var places []models.Place
	err = forEachRow(reader, func(_ int, record []string) error {
		t := models.LocationType(strings.ToLower(h.get(record, "type")))
		if t != models.LocationCity && t != models.LocationCounty {
			return fmt.Errorf("invalid type %q", t)
		}
		code, ok := models.StateCode(h.get(record, "state_code"))
		if !ok {
			return fmt.Errorf("invalid state_code %q", h.get(record, "state_code"))
		}
		lat, lon, err := requiredPoint(h, record)
		if err != nil {
			return err
		}
		places = append(places, models.Place{
			Name:      h.get(record, "name"),
			Type:      t,
			StateCode: code,
			Latitude:  lat,
			Longitude: lon,
		})
		return nil
	})
	return places, err
}

// parseZipcodes reads zip,city,state_code,latitude,longitude.
func parseZipcodes(r io.Reader) ([]repository.ZipRecord, error) {
	reader := newReader(r)
	h, err := readHeader(reader, "zip", "latitude", "longitude")
	if err != nil {
		return nil, err
	}

	var zips []repository.ZipRecord
	err = forEachRow(reader, func(_ int, record []string) error {
		zip := h.get(record, "zip")
		if len(zip) < 5 {
			zip = strings.Repeat("0", 5-len(zip)) + zip
		}
		if len(zip) != 5 {
			return fmt.Errorf("invalid zip %q", zip)
		}
		lat, lon, err := requiredPoint(h, record)
		if err != nil {
			return err
		}
		zips = append(zips, repository.ZipRecord{
			Zip:       zip,
			City:      h.get(record, "city"),
			StateCode: strings.ToUpper(h.get(record, "state_code")),
			Latitude:  lat,
			Longitude: lon,
		})
		return nil
	})
	return zips, err
}

func requiredPoint(h header, record []string) (float64, float64, error) {
	lat, err := h.float(record, "latitude")
	if err != nil {
		return 0, 0, err
	}
	lon, err := h.float(record, "longitude")
	if err != nil {
		return 0, 0, err
	}
	if lat == nil || lon == nil {
		return 0, 0, errors.New("latitude and longitude are required")
	}
	return *lat, *lon, nil
}
