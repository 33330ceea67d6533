package handler

import (
	"context"
	"net/http"

	"pha-locator/internal/models"

	"github.com/gin-gonic/gin"
)

// LocationHandler handles location search requests
type LocationHandler struct {
	service LocationSearcher
}

// LocationSearcher interface for dependency injection
type LocationSearcher interface {
	Search(context.Context, string) ([]models.Location, error)
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationSearcher) *LocationHandler {
	return &LocationHandler{service: svc}
}

// Search handles GET /locations requests
//
//	@Summary	Resolve a city, county, state or ZIP code
//	@Param		q	query	string	false	"search text"
//	@Success	200	{array}	models.Location
//	@Router		/locations [get]
func (h *LocationHandler) Search(c *gin.Context) {
	locations, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, locations)
}
