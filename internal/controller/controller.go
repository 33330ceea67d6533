// Package controller orchestrates location filtering, pagination and selection for
// one browsing session and emits snapshots of the resulting state.
package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"pha-locator/internal/matcher"
	"pha-locator/internal/models"
	"pha-locator/internal/pager"
	"pha-locator/internal/selection"

	"github.com/rs/zerolog"
)

// ErrSuperseded is returned by Load and Search when a newer request of the same
// kind was issued while this one was in flight. Its result has been discarded.
var ErrSuperseded = errors.New("controller: superseded by a newer request")

// Source fetches the full agency collection.
type Source interface {
	ListAgencies(ctx context.Context) ([]models.Agency, error)
}

// LocationResolver resolves free text into location candidates.
type LocationResolver interface {
	Resolve(ctx context.Context, query string) ([]models.Location, error)
}

// Controller owns the filter, page and selection state of one session. Views never
// mutate it directly; they call the command methods and observe snapshots.
type Controller struct {
	mu sync.Mutex

	source    Source
	resolver  LocationResolver
	mapView   selection.MapSink
	selection *selection.Coordinator
	logger    zerolog.Logger
	pageSize  int

	base     []models.Agency
	filtered []models.Agency
	filter   models.FilterState
	page     models.Page

	loadGen   uint64
	searchGen uint64

	subscribers map[int]func(models.Snapshot)
	nextSub     int
}

// New creates a controller with an empty source collection.
func New(source Source, resolver LocationResolver, mapView selection.MapSink, list selection.ListSink, pageSize int, logger zerolog.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}
	c := &Controller{
		source:      source,
		resolver:    resolver,
		mapView:     mapView,
		selection:   selection.NewCoordinator(mapView, list),
		logger:      logger,
		pageSize:    pageSize,
		subscribers: map[int]func(models.Snapshot){},
	}
	c.page = pager.Paginate(nil, 1, pageSize)
	return c
}

// Subscribe registers fn to receive a snapshot after every state change. fn runs
// while the controller lock is held and must not call back into the controller.
func (c *Controller) Subscribe(fn func(models.Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetLocationFilter applies location (nil shows everything) and returns to page 1.
func (c *Controller) SetLocationFilter(location *models.Location) models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if location != nil {
		loc := *location
		c.filter.ActiveLocation = &loc
	} else {
		c.filter.ActiveLocation = nil
	}
	c.applyFilterLocked(1)
	c.mapView.ResetView(c.selection.HomeView())

	c.logger.Debug().
		Str("filter", c.filterLabelLocked()).
		Int("matched", len(c.filtered)).
		Msg("location filter applied")
	return c.emitLocked()
}

// ClearFilter is SetLocationFilter(nil).
func (c *Controller) ClearFilter() models.Snapshot {
	return c.SetLocationFilter(nil)
}

// ChangePage moves to page, clamped to the available range. Filter and selection are untouched.
func (c *Controller) ChangePage(page int) models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = pager.Paginate(c.filtered, page, c.pageSize)
	c.mapView.ShowMarkers(c.page.Items)
	return c.emitLocked()
}

// RefreshSource replaces the base collection and re-applies the active filter,
// keeping the current page when it still exists.
func (c *Controller) RefreshSource(agencies []models.Agency) models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setBaseLocked(agencies)
	c.applyFilterLocked(c.page.ClampedPage)
	return c.emitLocked()
}

// Select marks agencyID as the selected agency.
func (c *Controller) Select(agencyID string) (models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selection.Select(agencyID); err != nil {
		return c.snapshotLocked(), err
	}
	return c.emitLocked(), nil
}

// ClearSelection returns the selection to idle.
func (c *Controller) ClearSelection() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selection.Clear()
	return c.emitLocked()
}

// Load fetches the source collection and refreshes from it. Only the most recently
// issued Load takes effect; older ones return ErrSuperseded. On fetch failure the
// previous state is kept and the error is returned.
func (c *Controller) Load(ctx context.Context) (models.Snapshot, error) {
	c.mu.Lock()
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()

	agencies, err := c.source.ListAgencies(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.loadGen {
		c.logger.Debug().Uint64("generation", gen).Msg("discarding superseded source fetch")
		return c.snapshotLocked(), ErrSuperseded
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("source fetch failed, keeping last known state")
		return c.snapshotLocked(), fmt.Errorf("controller: failed to fetch agencies: %w", err)
	}

	c.setBaseLocked(agencies)
	c.applyFilterLocked(c.page.ClampedPage)
	return c.emitLocked(), nil
}

// Search resolves query into location candidates. Only the most recently issued
// Search returns results; older ones return ErrSuperseded.
func (c *Controller) Search(ctx context.Context, query string) ([]models.Location, error) {
	c.mu.Lock()
	c.searchGen++
	gen := c.searchGen
	c.mu.Unlock()

	candidates, err := c.resolver.Resolve(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.searchGen {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("controller: failed to resolve %q: %w", query, err)
	}
	return candidates, nil
}

// setBaseLocked stores a copy of agencies ordered by name, then id.
func (c *Controller) setBaseLocked(agencies []models.Agency) {
	base := slices.Clone(agencies)
	slices.SortStableFunc(base, func(a, b models.Agency) int {
		if n := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	c.base = base
}

func (c *Controller) applyFilterLocked(page int) {
	c.filtered = matcher.Filter(c.base, c.filter.ActiveLocation)
	c.page = pager.Paginate(c.filtered, page, c.pageSize)
	c.selection.SourceChanged(c.filtered)
	c.selection.SetHomeView(homeView(c.filter.ActiveLocation, c.filtered))
	c.mapView.ShowMarkers(c.page.Items)
}

func (c *Controller) filterLabelLocked() string {
	if c.filter.ActiveLocation == nil {
		return ""
	}
	return c.filter.ActiveLocation.Label()
}

func (c *Controller) snapshotLocked() models.Snapshot {
	state := models.PageState{
		CurrentPage: c.page.ClampedPage,
		PageSize:    c.pageSize,
		TotalCount:  c.page.TotalCount,
		TotalPages:  c.page.TotalPages,
	}
	var filter models.FilterState
	if c.filter.ActiveLocation != nil {
		loc := *c.filter.ActiveLocation
		filter.ActiveLocation = &loc
	}
	return models.Snapshot{
		Filter:      filter,
		FilterLabel: c.filterLabelLocked(),
		HasFilter:   filter.ActiveLocation != nil,
		Page:        state,
		HasPrev:     state.HasPrev(),
		HasNext:     state.HasNext(),
		Selection:   c.selection.State(),
		Items:       slices.Clone(c.page.Items),
	}
}

func (c *Controller) emitLocked() models.Snapshot {
	snap := c.snapshotLocked()
	for _, fn := range c.subscribers {
		fn(snap)
	}
	return snap
}
