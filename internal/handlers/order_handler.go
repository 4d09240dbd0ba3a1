package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"order_manager/internal/models"
	"order_manager/internal/repository"
	"order_manager/internal/services"
)

type OrderHandler struct {
	statusService services.StatusService
	orderRepo     repository.OrderRepository
	historyRepo   repository.HistoryRepository
}

func NewOrderHandler(
	statusService services.StatusService,
	orderRepo repository.OrderRepository,
	historyRepo repository.HistoryRepository,
) *OrderHandler {
	return &OrderHandler{
		statusService: statusService,
		orderRepo:     orderRepo,
		historyRepo:   historyRepo,
	}
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderRepo.GetByID(empresaID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	var filter repository.OrderFilter
	if raw := c.Query("channel"); raw != "" {
		ch := models.Channel(raw)
		filter.Channel = &ch
	}
	if raw := c.Query("status"); raw != "" {
		st := models.OrderStatus(raw)
		filter.Status = &st
	}
	orders, err := h.orderRepo.List(empresaID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.orderRepo.GetByID(empresaID(c), id); err != nil {
		respondError(c, err)
		return
	}
	entries, err := h.historyRepo.GetByOrderID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	order, err := h.statusService.ChangeStatus(empresaID(c), id, req.Status, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CloseBill(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		PaymentMethodID *uint            `json:"payment_method_id"`
		ChangeDueFor    *decimal.Decimal `json:"change_due_for"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	order, err := h.statusService.CloseBill(empresaID(c), id, req.PaymentMethodID, req.ChangeDueFor, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Reopen(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.statusService.Reopen(empresaID(c), id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// Reason is optional; an empty body is fine.
	_ = c.ShouldBindJSON(&req)

	order, err := h.statusService.Cancel(empresaID(c), id, req.Reason, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.LineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	order, err := h.statusService.AddItem(empresaID(c), id, req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) RemoveItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "line_id")
	if !ok {
		return
	}
	order, err := h.statusService.RemoveItem(empresaID(c), id, lineID, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
