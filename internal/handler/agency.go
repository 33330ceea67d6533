package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"pha-locator/internal/models"
	"pha-locator/internal/service"

	"github.com/gin-gonic/gin"
)

// AgencyHandler handles agency listing requests
type AgencyHandler struct {
	service AgencyLister
}

// AgencyLister interface for dependency injection
type AgencyLister interface {
	Page(ctx context.Context, stateCode string, page int) (models.Page, error)
	Get(ctx context.Context, id string) (*models.Agency, error)
}

// NewAgencyHandler creates a new agency handler
func NewAgencyHandler(svc AgencyLister) *AgencyHandler {
	return &AgencyHandler{service: svc}
}

// List handles GET /agencies requests
//
//	@Summary	List agencies one page at a time
//	@Param		state	query	string	false	"state code or name"
//	@Param		page	query	int		false	"page number, clamped to the available range"
//	@Success	200		{object}	models.Page
//	@Router		/agencies [get]
func (h *AgencyHandler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page format"})
			return
		}
		page = n
	}

	result, err := h.service.Page(c.Request.Context(), c.Query("state"), page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown state"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /agencies/:id requests
//
//	@Summary	Get one agency
//	@Param		id	path	string	true	"agency id"
//	@Success	200	{object}	models.Agency
//	@Router		/agencies/{id} [get]
func (h *AgencyHandler) Get(c *gin.Context) {
	agency, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if agency == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "agency not found"})
		return
	}

	c.JSON(http.StatusOK, agency)
}
