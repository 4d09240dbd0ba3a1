package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"order_manager/internal/apperrors"
	"order_manager/internal/redis"
	"order_manager/internal/services"
)

type CheckoutHandler struct {
	checkoutService services.CheckoutService
	cache           *redis.Client
	previewTTL      time.Duration
}

func NewCheckoutHandler(checkoutService services.CheckoutService, cache *redis.Client, previewTTL time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cache:           cache,
		previewTTL:      previewTTL,
	}
}

type checkoutRequest struct {
	services.CheckoutInput
	PreviewID string `json:"preview_id"`
}

// Preview runs the full composition path without persisting anything and
// caches the quote under a fresh preview id.
func (h *CheckoutHandler) Preview(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	req.EmpresaID = empresaID(c)

	if err := h.checkoutService.NormalizeCart(req.EmpresaID, &req.Cart); err != nil {
		respondError(c, err)
		return
	}
	priced, err := h.checkoutService.Preview(req.CheckoutInput)
	if err != nil {
		respondError(c, err)
		return
	}

	previewID := uuid.NewString()
	if h.cache != nil {
		if err := h.cache.SetPreview(previewID, priced, h.previewTTL); err != nil {
			// The quote is still valid without the cache entry.
			previewID = ""
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"preview_id": previewID,
		"order":      priced,
	})
}

// Finalize persists the validated, priced cart as a real order. The preview
// id, when present, only links the audit trail to the quote the customer saw;
// prices are always recomputed.
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	req.EmpresaID = empresaID(c)

	if err := h.checkoutService.NormalizeCart(req.EmpresaID, &req.Cart); err != nil {
		respondError(c, err)
		return
	}
	order, priced, err := h.checkoutService.Finalize(req.CheckoutInput, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil && req.PreviewID != "" {
		h.cache.DeletePreview(req.PreviewID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":        order.ID,
		"sequence_number": order.SequenceNumber,
		"status":          order.Status,
		"order":           priced,
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

// Authentication is an external collaborator; the gateway forwards the
// resolved identifiers in headers.
func empresaID(c *gin.Context) uint {
	return headerUint(c, "X-Empresa-ID", 1)
}

func actorID(c *gin.Context) uint {
	return headerUint(c, "X-User-ID", 0)
}

func headerUint(c *gin.Context, key string, fallback uint) uint {
	if raw := c.GetHeader(key); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(v)
		}
	}
	return fallback
}
