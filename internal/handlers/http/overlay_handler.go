package http

import (
	"errors"
	"net/http"
	"time"

	"streamlay/internal/core/domain"
	"streamlay/internal/core/ports"
	"streamlay/internal/infrastructure/monitoring"
	"streamlay/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OverlayHandler exposes the overlay store's REST surface. The server
// is authoritative: it assigns ids and clamps position and size before
// persisting, echoing the canonical record back.
type OverlayHandler struct {
	repo    ports.OverlayRepository
	metrics *monitoring.PrometheusCollector
}

func NewOverlayHandler(repo ports.OverlayRepository, metrics *monitoring.PrometheusCollector) *OverlayHandler {
	return &OverlayHandler{
		repo:    repo,
		metrics: metrics,
	}
}

func (h *OverlayHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/overlays", h.ListOverlays)
	router.POST("/overlays", h.CreateOverlay)
	router.PUT("/overlays/:id", h.UpdateOverlay)
	router.DELETE("/overlays/:id", h.DeleteOverlay)
}

func (h *OverlayHandler) ListOverlays(c *gin.Context) {
	start := time.Now()

	ref := c.Query("streamRef")
	if err := validation.ValidateStreamRef(ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overlays, err := h.repo.ListByStream(c.Request.Context(), domain.StreamRef(ref))
	if err != nil {
		h.record("list", "error", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Empty collections serialize as [], not null
	out := make([]domain.Overlay, 0, len(overlays))
	for _, o := range overlays {
		out = append(out, *o)
	}

	h.record("list", "ok", start)
	c.JSON(http.StatusOK, out)
}

func (h *OverlayHandler) CreateOverlay(c *gin.Context) {
	start := time.Now()

	var draft domain.Draft
	if err := c.BindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validation.ValidateDraft(draft); err != nil {
		h.record("create", "rejected", start)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	draft = draft.Normalize()
	now := time.Now().UTC()
	overlay := &domain.Overlay{
		ID:        domain.OverlayID("ov_" + uuid.NewString()),
		StreamRef: draft.StreamRef,
		Kind:      draft.Kind,
		Content:   draft.Content,
		Position:  draft.Position,
		Size:      draft.Size,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(c.Request.Context(), overlay); err != nil {
		h.record("create", "error", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordOverlayCreated(overlay.StreamRef, overlay.Kind)
	}
	h.record("create", "ok", start)
	c.JSON(http.StatusCreated, overlay)
}

func (h *OverlayHandler) UpdateOverlay(c *gin.Context) {
	start := time.Now()
	id := domain.OverlayID(c.Param("id"))

	var body domain.Overlay
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id

	existing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOverlayNotFound) {
			h.record("update", "not_found", start)
			c.JSON(http.StatusNotFound, gin.H{"error": "overlay not found"})
			return
		}
		h.record("update", "error", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Kind and stream binding are immutable after creation
	body.Kind = existing.Kind
	body.StreamRef = existing.StreamRef
	body.CreatedAt = existing.CreatedAt

	if err := validation.ValidateOverlay(body); err != nil {
		h.record("update", "rejected", start)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	canonical := body.Normalize()
	canonical.UpdatedAt = time.Now().UTC()

	if err := h.repo.Update(c.Request.Context(), &canonical); err != nil {
		h.record("update", "error", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.record("update", "ok", start)
	c.JSON(http.StatusOK, canonical)
}

// DeleteOverlay succeeds regardless of prior existence so clients that
// removed optimistically can retry without special-casing.
func (h *OverlayHandler) DeleteOverlay(c *gin.Context) {
	start := time.Now()
	id := domain.OverlayID(c.Param("id"))

	existing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOverlayNotFound) {
			h.record("delete", "ok", start)
			c.Status(http.StatusNoContent)
			return
		}
		h.record("delete", "error", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, domain.ErrOverlayNotFound) {
		if h.metrics != nil {
			h.metrics.RecordDeleteFailure()
		}
		h.record("delete", "error", start)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordOverlayDeleted(existing.StreamRef, existing.Kind)
	}
	h.record("delete", "ok", start)
	c.Status(http.StatusNoContent)
}

func (h *OverlayHandler) record(op, outcome string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordOperation(op, outcome, time.Since(start))
	}
}
