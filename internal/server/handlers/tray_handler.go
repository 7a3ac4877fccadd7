package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/tray"
)

// TrayHandler adapts the tray service to the HTTP surface.
type TrayHandler struct {
	svc    *tray.Service
	logger *zap.Logger
}

// NewTrayHandler constructs the HTTP handler adapter.
func NewTrayHandler(svc *tray.Service, logger *zap.Logger) *TrayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrayHandler{svc: svc, logger: logger}
}

type createTrayRequest struct {
	Door      models.Door     `json:"door" binding:"required"`
	Row       int             `json:"row" binding:"required"`
	Position  models.Position `json:"position" binding:"required"`
	EggType   models.EggType  `json:"eggType"`
	AddedDate *time.Time      `json:"addedDate"`
	Notes     string          `json:"notes"`
}

type updateTrayRequest struct {
	Notes            *string `json:"notes"`
	NotificationSent *bool   `json:"notificationSent"`
}

// List returns all trays, most recently added first.
func (h *TrayHandler) List(c *gin.Context) {
	trays, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trays)
}

// ListActive returns trays still in the incubator, oldest first.
func (h *TrayHandler) ListActive(c *gin.Context) {
	trays, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trays)
}

// Get returns one tray by id.
func (h *TrayHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Status returns one tray together with its computed incubation status.
func (h *TrayHandler) Status(c *gin.Context) {
	t, report, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tray": t, "status": report})
}

// Create adds a new tray to a free slot.
func (h *TrayHandler) Create(c *gin.Context) {
	var req createTrayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), tray.CreateInput{
		Door:      req.Door,
		Row:       req.Row,
		Position:  req.Position,
		EggType:   req.EggType,
		AddedDate: req.AddedDate,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Remove marks a tray as taken out of the incubator. Safe to call twice.
func (h *TrayHandler) Remove(c *gin.Context) {
	t, err := h.svc.MarkRemoved(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update applies the mutable tray fields.
func (h *TrayHandler) Update(c *gin.Context) {
	var req updateTrayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), tray.UpdateInput{
		Notes:            req.Notes,
		NotificationSent: req.NotificationSent,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete removes a tray record permanently, subject to the retention policy.
func (h *TrayHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tray deleted successfully"})
}

// ClearHistory prunes every tray the retention policy permits.
func (h *TrayHandler) ClearHistory(c *gin.Context) {
	result, err := h.svc.ClearHistory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health reports service liveness with a timestamp.
func (h *TrayHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "up", "timestamp": time.Now().UTC()})
}

func (h *TrayHandler) respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var conflictErr *models.SlotConflictError
	var forbiddenErr *models.DeleteForbiddenError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": conflictErr.Error()})
	case errors.Is(err, models.ErrTrayNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "tray not found"})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{"message": forbiddenErr.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
