// Package pager slices an ordered agency collection into pages.
package pager

import "pha-locator/internal/models"

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// TotalPages returns max(1, ceil(totalCount/pageSize)).
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalCount <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the requested page of items. Out-of-range pages are clamped,
// never rejected, and the input order is preserved.
func Paginate(items []models.Agency, page, pageSize int) models.Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := TotalPages(total, pageSize)
	clamped := Clamp(page, totalPages)

	start := (clamped - 1) * pageSize
	end := min(start+pageSize, total)
	pageItems := make([]models.Agency, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	return models.Page{
		Items:       pageItems,
		TotalCount:  total,
		TotalPages:  totalPages,
		ClampedPage: clamped,
	}
}

// PassThrough builds page metadata for items already paged by the source,
// using the total count the source reported.
func PassThrough(pageItems []models.Agency, totalCount, page, pageSize int) models.Page {
	if totalCount < 0 {
		totalCount = 0
	}
	totalPages := TotalPages(totalCount, pageSize)
	if pageItems == nil {
		pageItems = []models.Agency{}
	}
	return models.Page{
		Items:       pageItems,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		ClampedPage: Clamp(page, totalPages),
	}
}
