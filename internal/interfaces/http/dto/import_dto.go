package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/account"
)

// ImportSubmitRequest represents the multipart form fields accompanying an
// uploaded marketplace export. The file itself arrives in the "file" part.
type ImportSubmitRequest struct {
	Kind      string `form:"kind" binding:"required,oneof=order listing"`
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
}

// ImportAcceptedResponse is returned when an upload is queued for processing
type ImportAcceptedResponse struct {
	UploadID uuid.UUID `json:"upload_id"`
}

// SuggestAccountResponse carries the seller token detected in a file and the
// accounts it may belong to, ranked exact matches first
type SuggestAccountResponse struct {
	DetectedToken string                   `json:"detected_token"`
	Candidates    []account.MatchCandidate `json:"candidates"`
}

// ImportHistoryListRequest represents filters for listing past import runs
type ImportHistoryListRequest struct {
	ListRequest
	AccountID string `form:"account_id" binding:"omitempty,uuid"`
	Kind      string `form:"kind" binding:"omitempty,oneof=orders listings"`
	Status    string `form:"status" binding:"omitempty,oneof=processing completed failed"`
}

// BulkStatusRequest represents a request to move a batch of orders to a new status
type BulkStatusRequest struct {
	OrderIDs     []uuid.UUID `json:"order_ids" binding:"required,min=1"`
	TargetStatus string      `json:"target_status" binding:"required"`
	Actor        string      `json:"actor" binding:"required"`
}

// BulkPreviewRequest represents a dry-run eligibility check for a bulk status change
type BulkPreviewRequest struct {
	OrderIDs     []uuid.UUID `json:"order_ids" binding:"required,min=1"`
	TargetStatus string      `json:"target_status" binding:"required"`
}

// CreateAccountRequest represents a request to register a seller account
type CreateAccountRequest struct {
	DisplayName      string `json:"display_name" binding:"required,max=200"`
	PlatformUsername string `json:"platform_username" binding:"required,max=100"`
	Platform         string `json:"platform" binding:"omitempty,oneof=ebay etsy amazon generic"`
	Notes            string `json:"notes"`
}

// AccountResponse represents a seller account in API responses
type AccountResponse struct {
	ID               uuid.UUID `json:"id"`
	DisplayName      string    `json:"display_name"`
	PlatformUsername string    `json:"platform_username"`
	Platform         string    `json:"platform"`
	Active           bool      `json:"active"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToAccountResponse converts a domain account to its API shape
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID,
		DisplayName:      a.DisplayName,
		PlatformUsername: a.PlatformUsername,
		Platform:         string(a.Platform),
		Active:           a.Active,
		Notes:            a.Notes,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
