package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pha-locator/internal/controller"
	"pha-locator/internal/matcher"
	"pha-locator/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionView is what a client sees after each command: the controller snapshot plus
// the map commands issued since its previous request.
type SessionView struct {
	SessionID string `json:"session_id"`
	models.Snapshot
	MapCommands []models.MapCommand `json:"map_commands"`
	Highlight   *string             `json:"highlight"`
}

type session struct {
	id         string
	controller *controller.Controller
	views      *viewRecorder
	lastSeen   time.Time
}

// SessionOptions configures a SessionService
type SessionOptions struct {
	PageSize        int
	CityRadiusMiles float64
	TTL             time.Duration
	FetchTimeout    time.Duration
}

// SessionService owns one result-set controller per browsing session
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*session

	source   controller.Source
	resolver controller.LocationResolver
	opts     SessionOptions
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(source controller.Source, resolver controller.LocationResolver, opts SessionOptions, logger zerolog.Logger) *SessionService {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.CityRadiusMiles <= 0 {
		opts.CityRadiusMiles = matcher.DefaultCityRadiusMiles
	}
	return &SessionService{
		sessions: map[string]*session{},
		source:   source,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a session and loads the agency collection into it.
func (s *SessionService) Create(ctx context.Context) (SessionView, error) {
	id := uuid.NewString()
	views := &viewRecorder{}
	logger := s.logger.With().Str("session_id", id).Logger()
	sess := &session{
		id:         id,
		controller: controller.New(s.source, s.resolver, views, views, s.opts.PageSize, logger),
		views:      views,
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	if _, err := sess.controller.Load(ctx); err != nil {
		return SessionView{}, fmt.Errorf("service: failed to load agencies: %w", err)
	}

	s.mu.Lock()
	sess.lastSeen = s.now()
	s.sessions[id] = sess
	s.mu.Unlock()

	logger.Info().Msg("session created")
	return s.view(sess, sess.controller.Snapshot()), nil
}

// Get returns the current state of a session.
func (s *SessionService) Get(id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, sess.controller.Snapshot()), nil
}

// SetFilter applies a location filter. A nil location clears the filter. A city
// submitted without a radius gets the configured one.
func (s *SessionService) SetFilter(id string, location *models.Location) (SessionView, error) {
	if location != nil {
		if err := location.Validate(); err != nil {
			return SessionView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if location.Type == models.LocationCity && location.RadiusMiles <= 0 {
			loc := *location
			loc.RadiusMiles = s.opts.CityRadiusMiles
			location = &loc
		}
	}
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, sess.controller.SetLocationFilter(location)), nil
}

// ClearFilter removes the location filter.
func (s *SessionService) ClearFilter(id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, sess.controller.ClearFilter()), nil
}

// ChangePage moves the session to page.
func (s *SessionService) ChangePage(id string, page int) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, sess.controller.ChangePage(page)), nil
}

// Refresh refetches the agency collection. On failure the previous state is kept
// and returned alongside the error.
func (s *SessionService) Refresh(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	snap, err := sess.controller.Load(ctx)
	if err != nil && !errors.Is(err, controller.ErrSuperseded) {
		return s.view(sess, snap), fmt.Errorf("service: failed to refresh agencies: %w", err)
	}
	return s.view(sess, snap), err
}

// Search resolves query within a session; only the latest search of a session returns.
func (s *SessionService) Search(ctx context.Context, id, query string) ([]models.Location, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	locations, err := sess.controller.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []models.Location{}
	}
	return locations, nil
}

// Select marks an agency as selected, from either a list click or a marker click.
func (s *SessionService) Select(id, agencyID string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	snap, err := sess.controller.Select(agencyID)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, snap), nil
}

// ClearSelection deselects the current agency.
func (s *SessionService) ClearSelection(id string) (SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, sess.controller.ClearSelection()), nil
}

// Delete ends a session.
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed.
func (s *SessionService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.opts.TTL)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info().Int("expired", n).Msg("expired idle sessions")
			}
		}
	}
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionService) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}

func (s *SessionService) view(sess *session, snap models.Snapshot) SessionView {
	commands, highlight := sess.views.drain()
	return SessionView{
		SessionID:   sess.id,
		Snapshot:    snap,
		MapCommands: commands,
		Highlight:   highlight,
	}
}
