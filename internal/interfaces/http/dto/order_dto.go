package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/listing"
	"github.com/sellerdesk/backend/internal/domain/order"
)

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"account_id"`
	OrderNumber string     `json:"order_number"`
	ItemID      string     `json:"item_id"`
	BuyerName   string     `json:"buyer_name"`
	Quantity    int        `json:"quantity"`
	TotalAmount string     `json:"total_amount"`
	Currency    string     `json:"currency,omitempty"`
	Status      string     `json:"status"`
	OrderedAt   *time.Time `json:"ordered_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToOrderResponse converts a domain order to its API shape
func ToOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		AccountID:   o.AccountID,
		OrderNumber: o.OrderNumber,
		ItemID:      o.ItemID,
		BuyerName:   o.BuyerName,
		Quantity:    o.Quantity,
		TotalAmount: o.TotalAmount.String(),
		Currency:    o.Currency,
		Status:      o.Status.String(),
		OrderedAt:   o.OrderedAt,
		ShippedAt:   o.ShippedAt,
		CompletedAt: o.CompletedAt,
		CreatedAt:   o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	ItemID    string    `json:"item_id"`
	Title     string    `json:"title"`
	SKU       string    `json:"sku,omitempty"`
	Price     string    `json:"price"`
	Currency  string    `json:"currency,omitempty"`
	Quantity  int       `json:"quantity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToListingResponse converts a domain listing to its API shape
func ToListingResponse(l *listing.Listing) ListingResponse {
	return ListingResponse{
		ID:        l.ID,
		AccountID: l.AccountID,
		ItemID:    l.ItemID,
		Title:     l.Title,
		SKU:       l.SKU,
		Price:     l.Price.String(),
		Currency:  l.Currency,
		Quantity:  l.Quantity,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}

// ToListingResponses converts a slice of domain listings
func ToListingResponses(listings []listing.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, ToListingResponse(&listings[i]))
	}
	return out
}
