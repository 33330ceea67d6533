package service

import (
	"context"
	"fmt"

	"pha-locator/internal/models"
)

// LocationService resolves typed search text into location candidates
type LocationService struct {
	resolver LocationResolver
}

// LocationResolver interface for dependency injection
type LocationResolver interface {
	Resolve(ctx context.Context, query string) ([]models.Location, error)
}

// NewLocationService creates a new location service
func NewLocationService(resolver LocationResolver) *LocationService {
	return &LocationService{resolver: resolver}
}

// Search returns candidates for query, best first. Blank queries return no candidates.
func (s *LocationService) Search(ctx context.Context, query string) ([]models.Location, error) {
	locations, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve locations: %w", err)
	}
	if locations == nil {
		locations = []models.Location{}
	}
	return locations, nil
}
