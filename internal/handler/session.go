package handler

import (
	"context"
	"errors"
	"net/http"

	"pha-locator/internal/controller"
	"pha-locator/internal/models"
	"pha-locator/internal/selection"
	"pha-locator/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the result-set commands of a browsing session
type SessionHandler struct {
	service Sessions
}

// Sessions interface for dependency injection
type Sessions interface {
	Create(ctx context.Context) (service.SessionView, error)
	Get(id string) (service.SessionView, error)
	SetFilter(id string, location *models.Location) (service.SessionView, error)
	ClearFilter(id string) (service.SessionView, error)
	ChangePage(id string, page int) (service.SessionView, error)
	Refresh(ctx context.Context, id string) (service.SessionView, error)
	Search(ctx context.Context, id, query string) ([]models.Location, error)
	Select(id, agencyID string) (service.SessionView, error)
	ClearSelection(id string) (service.SessionView, error)
	Delete(id string) error
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc Sessions) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Register mounts the session routes on r.
func (h *SessionHandler) Register(r gin.IRouter) {
	r.POST("/sessions", h.Create)
	r.GET("/sessions/:id", h.Get)
	r.DELETE("/sessions/:id", h.Delete)
	r.PUT("/sessions/:id/filter", h.SetFilter)
	r.DELETE("/sessions/:id/filter", h.ClearFilter)
	r.GET("/sessions/:id/search", h.Search)
	r.PUT("/sessions/:id/page", h.ChangePage)
	r.POST("/sessions/:id/refresh", h.Refresh)
	r.PUT("/sessions/:id/selection", h.Select)
	r.DELETE("/sessions/:id/selection", h.ClearSelection)
}

type pageRequest struct {
	Page *int `json:"page" binding:"required"`
}

type selectionRequest struct {
	AgencyID string `json:"agency_id" binding:"required"`
}

// Create handles POST /sessions
func (h *SessionHandler) Create(c *gin.Context) {
	view, err := h.service.Create(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(sessionIDKey, view.SessionID)
	c.JSON(http.StatusCreated, view)
}

// Get handles GET /sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	h.respond(c, func(id string) (service.SessionView, error) {
		return h.service.Get(id)
	})
}

// Delete handles DELETE /sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id := h.sessionID(c)
	if err := h.service.Delete(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetFilter handles PUT /sessions/:id/filter
func (h *SessionHandler) SetFilter(c *gin.Context) {
	var location models.Location
	if err := c.ShouldBindJSON(&location); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location body"})
		return
	}
	h.respond(c, func(id string) (service.SessionView, error) {
		return h.service.SetFilter(id, &location)
	})
}

// ClearFilter handles DELETE /sessions/:id/filter
func (h *SessionHandler) ClearFilter(c *gin.Context) {
	h.respond(c, h.service.ClearFilter)
}

// Search handles GET /sessions/:id/search
func (h *SessionHandler) Search(c *gin.Context) {
	locations, err := h.service.Search(c.Request.Context(), h.sessionID(c), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// ChangePage handles PUT /sessions/:id/page
func (h *SessionHandler) ChangePage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'page'"})
		return
	}
	h.respond(c, func(id string) (service.SessionView, error) {
		return h.service.ChangePage(id, *req.Page)
	})
}

// Refresh handles POST /sessions/:id/refresh
func (h *SessionHandler) Refresh(c *gin.Context) {
	h.respond(c, func(id string) (service.SessionView, error) {
		return h.service.Refresh(c.Request.Context(), id)
	})
}

// Select handles PUT /sessions/:id/selection
func (h *SessionHandler) Select(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field 'agency_id'"})
		return
	}
	h.respond(c, func(id string) (service.SessionView, error) {
		return h.service.Select(id, req.AgencyID)
	})
}

// ClearSelection handles DELETE /sessions/:id/selection
func (h *SessionHandler) ClearSelection(c *gin.Context) {
	h.respond(c, h.service.ClearSelection)
}

func (h *SessionHandler) sessionID(c *gin.Context) string {
	id := c.Param("id")
	c.Set(sessionIDKey, id)
	return id
}

func (h *SessionHandler) respond(c *gin.Context, fn func(id string) (service.SessionView, error)) {
	view, err := fn(h.sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// writeError maps service and engine errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, selection.ErrUnknownAgency):
		c.JSON(http.StatusNotFound, gin.H{"error": "agency not in current results"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, controller.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream failure"})
	}
}
