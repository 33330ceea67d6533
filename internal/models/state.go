package models

// FilterState holds the active location filter. A nil ActiveLocation shows every agency.
type FilterState struct {
	ActiveLocation *Location `json:"active_location"`
}

// PageState describes the current page of the filtered collection.
type PageState struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// HasPrev reports whether a previous page exists.
func (p PageState) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p PageState) HasNext() bool { return p.CurrentPage < p.TotalPages }

// SelectionState holds the id of the single selected agency, nil when idle.
type SelectionState struct {
	SelectedAgencyID *string `json:"selected_agency_id"`
}

// Page is one slice of a collection plus its pagination metadata.
type Page struct {
	Items       []Agency `json:"items"`
	TotalCount  int      `json:"total_count"`
	TotalPages  int      `json:"total_pages"`
	ClampedPage int      `json:"page"`
}

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Nationwide frames the continental United States.
var Nationwide = Bounds{South: 24.396308, West: -124.848974, North: 49.384358, East: -66.885444}

// Snapshot is the read-only view of controller state emitted to the list and map views.
type Snapshot struct {
	Filter      FilterState    `json:"filter"`
	FilterLabel string         `json:"filter_label,omitempty"`
	HasFilter   bool           `json:"has_filter"`
	Page        PageState      `json:"page"`
	HasPrev     bool           `json:"has_prev"`
	HasNext     bool           `json:"has_next"`
	Selection   SelectionState `json:"selection"`
	Items       []Agency       `json:"items"`
}
