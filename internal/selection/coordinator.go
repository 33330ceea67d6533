// Package selection tracks the single agency highlighted across the list and map views.
package selection

import (
	"errors"

	"pha-locator/internal/models"
)

// ErrUnknownAgency is returned when selecting an id that is not in the current collection.
var ErrUnknownAgency = errors.New("selection: agency not in current collection")

// MapSink receives commands for the map rendering surface.
type MapSink interface {
	Focus(coords models.Coordinates)
	ShowMarkers(agencies []models.Agency)
	ResetView(bounds models.Bounds)
}

// ListSink receives commands for the list panel. A nil id removes the highlight.
type ListSink interface {
	Highlight(agencyID *string)
}

// Coordinator is a two-state machine, Idle or Selected(id). It is not safe for
// concurrent use; the owning controller serialises access.
type Coordinator struct {
	mapView  MapSink
	list     ListSink
	members  map[string]models.Agency
	selected *models.Agency
	home     models.Bounds
}

// NewCoordinator returns an idle coordinator with an empty collection.
func NewCoordinator(mapView MapSink, list ListSink) *Coordinator {
	return &Coordinator{
		mapView: mapView,
		list:    list,
		members: map[string]models.Agency{},
		home:    models.Nationwide,
	}
}

// Select moves to Selected(agencyID), replacing any previous selection. The map is
// focused on the agency when it has coordinates.
func (c *Coordinator) Select(agencyID string) error {
	agency, ok := c.members[agencyID]
	if !ok {
		return ErrUnknownAgency
	}
	c.selected = &agency

	if coords, ok := agency.Coordinates(); ok {
		c.mapView.Focus(coords)
	}
	id := agency.ID
	c.list.Highlight(&id)
	return nil
}

// Clear moves to Idle and returns the map to the home view.
func (c *Coordinator) Clear() {
	c.selected = nil
	c.list.Highlight(nil)
	c.mapView.ResetView(c.home)
}

// SourceChanged replaces the collection selections are validated against and drops a
// selection whose agency is no longer present.
func (c *Coordinator) SourceChanged(agencies []models.Agency) {
	members := make(map[string]models.Agency, len(agencies))
	for _, a := range agencies {
		members[a.ID] = a
	}
	c.members = members

	if c.selected == nil {
		return
	}
	if current, ok := members[c.selected.ID]; ok {
		c.selected = &current
		return
	}
	c.selected = nil
	c.list.Highlight(nil)
}

// SetHomeView sets the bounds Clear resets the map to.
func (c *Coordinator) SetHomeView(bounds models.Bounds) {
	c.home = bounds
}

// HomeView returns the bounds Clear resets the map to.
func (c *Coordinator) HomeView() models.Bounds {
	return c.home
}

// State returns the current selection.
func (c *Coordinator) State() models.SelectionState {
	if c.selected == nil {
		return models.SelectionState{}
	}
	id := c.selected.ID
	return models.SelectionState{SelectedAgencyID: &id}
}

// Selected returns the selected agency, if any.
func (c *Coordinator) Selected() (models.Agency, bool) {
	if c.selected == nil {
		return models.Agency{}, false
	}
	return *c.selected, true
}
