package handler

import (
	bulkapp "github.com/sellerdesk/backend/internal/application/bulk"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BulkHandler handles bulk order operation endpoints
type BulkHandler struct {
	BaseHandler
	svc *bulkapp.StatusService
}

// NewBulkHandler creates a new BulkHandler
func NewBulkHandler(svc *bulkapp.StatusService) *BulkHandler {
	return &BulkHandler{svc: svc}
}

// ApplyStatus moves a batch of orders to a new status. Items fail
// independently; the response partitions the batch into succeeded and
// failed with a reason per failure.
func (h *BulkHandler) ApplyStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Apply(c.Request.Context(), req.Actor, req.OrderIDs, order.Status(req.TargetStatus))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PreviewStatus reports which orders in a batch could take the target
// status without changing anything
func (h *BulkHandler) PreviewStatus(c *gin.Context) {
	var req dto.BulkPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items, err := h.svc.Preview(c.Request.Context(), req.OrderIDs, order.Status(req.TargetStatus))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// GetAudit returns the audit record for a past bulk invocation
func (h *BulkHandler) GetAudit(c *gin.Context) {
	auditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid audit ID")
		return
	}

	record, err := h.svc.GetAudit(c.Request.Context(), auditID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// RegisterRoutes registers bulk operation routes
func (h *BulkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/bulk-status", h.ApplyStatus)
	rg.POST("/orders/bulk-status/preview", h.PreviewStatus)
	rg.GET("/bulk-audits/:id", h.GetAudit)
}
