package handler

import (
	accountapp "github.com/sellerdesk/backend/internal/application/account"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles seller account API endpoints
type AccountHandler struct {
	BaseHandler
	svc *accountapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(svc *accountapp.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Create registers a new seller account
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.svc.Create(c.Request.Context(), accountapp.CreateAccountInput{
		DisplayName:      req.DisplayName,
		PlatformUsername: req.PlatformUsername,
		Platform:         req.Platform,
		Notes:            req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.ToAccountResponse(acc))
}

// List returns seller accounts with pagination
func (h *AccountHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	accounts, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, dto.ToAccountResponse(&accounts[i]))
	}
	h.SuccessWithMeta(c, out, total, filter.Page, filter.Limit())
}

// Get returns a single account by id
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToAccountResponse(acc))
}

// Deactivate marks an account inactive
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.svc.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToAccountResponse(acc))
}

// ListOrders returns one account's orders, optionally filtered by status
func (h *AccountHandler) ListOrders(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	orders, total, err := h.svc.ListOrders(c.Request.Context(), id, c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.ToOrderResponses(orders), total, filter.Page, filter.Limit())
}

// ListListings returns one account's listings
func (h *AccountHandler) ListListings(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	listings, total, err := h.svc.ListListings(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.ToListingResponses(listings), total, filter.Page, filter.Limit())
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Create)
		accounts.GET("", h.List)
		accounts.GET("/:id", h.Get)
		accounts.DELETE("/:id", h.Deactivate)
		accounts.GET("/:id/orders", h.ListOrders)
		accounts.GET("/:id/listings", h.ListListings)
	}
}
