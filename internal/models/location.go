package models

import (
	"fmt"
	"strings"
)

// LocationType identifies the jurisdiction level a Location filters by.
type LocationType string

const (
	LocationState  LocationType = "state"
	LocationCity   LocationType = "city"
	LocationCounty LocationType = "county"
)

// Valid reports whether t is one of the known location types.
func (t LocationType) Valid() bool {
	switch t {
	case LocationState, LocationCity, LocationCounty:
		return true
	}
	return false
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is a resolved geographic filter unit. City locations always carry a
// center and a search radius; state and county locations match by jurisdiction text.
type Location struct {
	Name        string       `json:"name"`
	Type        LocationType `json:"type"`
	StateCode   string       `json:"state_code"`
	Center      *Coordinates `json:"center,omitempty"`
	RadiusMiles float64      `json:"radius_miles,omitempty"`
}

// Validate checks the structural invariants of a location submitted by a client.
func (l Location) Validate() error {
	if !l.Type.Valid() {
		return fmt.Errorf("unknown location type %q", l.Type)
	}
	if strings.TrimSpace(l.StateCode) == "" {
		return fmt.Errorf("state_code is required")
	}
	if l.Type == LocationCity && l.Center == nil {
		return fmt.Errorf("city location requires a center")
	}
	if l.Type == LocationCounty && strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("county location requires a name")
	}
	return nil
}

// Label is the human readable description of the filter shown above the result list.
func (l Location) Label() string {
	switch l.Type {
	case LocationState:
		return fmt.Sprintf("All offices in %s", l.Name)
	case LocationCity:
		return fmt.Sprintf("Within %g miles of %s, %s", l.RadiusMiles, l.Name, l.StateCode)
	case LocationCounty:
		return fmt.Sprintf("In %s, %s", l.Name, l.StateCode)
	}
	return l.Name
}
