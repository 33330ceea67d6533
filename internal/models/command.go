package models

// MapCommandKind names a command sent to the map rendering surface.
type MapCommandKind string

const (
	MapFocus       MapCommandKind = "focus"
	MapShowMarkers MapCommandKind = "show_markers"
	MapResetView   MapCommandKind = "reset_view"
)

// MapCommand is a single instruction for the map. Only the field matching Kind is set.
type MapCommand struct {
	Kind      MapCommandKind `json:"kind"`
	Focus     *Coordinates   `json:"focus,omitempty"`
	Bounds    *Bounds        `json:"bounds,omitempty"`
	AgencyIDs []string       `json:"agency_ids,omitempty"`
}
