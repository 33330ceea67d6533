package service

import (
	"context"
	"fmt"

	"pha-locator/internal/models"
	"pha-locator/internal/pager"
)

// AgencyService serves agency listings paged by the database
type AgencyService struct {
	repo     AgencyRepository
	pageSize int
}

// AgencyRepository interface for dependency injection
type AgencyRepository interface {
	ListAgenciesPage(ctx context.Context, stateCode string, limit, offset int) ([]models.Agency, int, error)
	GetAgency(ctx context.Context, id string) (*models.Agency, error)
}

// NewAgencyService creates a new agency service
func NewAgencyService(repo AgencyRepository, pageSize int) *AgencyService {
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}
	return &AgencyService{repo: repo, pageSize: pageSize}
}

// Page returns one page of agencies, optionally limited to a state. Pages past the
// end are clamped to the last page.
func (s *AgencyService) Page(ctx context.Context, stateCode string, page int) (models.Page, error) {
	if page < 1 {
		page = 1
	}
	if stateCode != "" {
		code, ok := models.StateCode(stateCode)
		if !ok {
			return models.Page{}, fmt.Errorf("%w: unknown state %q", ErrInvalidInput, stateCode)
		}
		stateCode = code
	}

	items, total, err := s.repo.ListAgenciesPage(ctx, stateCode, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return models.Page{}, fmt.Errorf("service: failed to list agencies: %w", err)
	}

	if last := pager.TotalPages(total, s.pageSize); page > last {
		page = last
		items, total, err = s.repo.ListAgenciesPage(ctx, stateCode, s.pageSize, (page-1)*s.pageSize)
		if err != nil {
			return models.Page{}, fmt.Errorf("service: failed to list agencies: %w", err)
		}
	}

	return pager.PassThrough(items, total, page, s.pageSize), nil
}

// Get returns one agency, or nil when it does not exist
func (s *AgencyService) Get(ctx context.Context, id string) (*models.Agency, error) {
	agency, err := s.repo.GetAgency(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get agency: %w", err)
	}
	return agency, nil
}
