package models

// Place is a gazetteer row: a named city or county with its center point.
type Place struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Type      LocationType `json:"type"`
	StateCode string       `json:"state_code"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
}

// Center returns the place's center point.
func (p Place) Center() Coordinates {
	return Coordinates{Lat: p.Latitude, Lon: p.Longitude}
}
