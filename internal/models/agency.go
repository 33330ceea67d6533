package models

// Agency is a housing-assistance office record. The engine only ever reads it.
type Agency struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	ProgramType *string  `json:"program_type,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Coordinates returns the agency position, or false when either coordinate is missing.
func (a Agency) Coordinates() (Coordinates, bool) {
	if a.Latitude == nil || a.Longitude == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *a.Latitude, Lon: *a.Longitude}, true
}
