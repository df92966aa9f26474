package listing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Listing represents one marketplace listing tracked for a seller account.
// ItemID is the marketplace-assigned identifier and acts as the natural key
// within the account's scope.
type Listing struct {
	shared.BaseEntity
	AccountID uuid.UUID
	ItemID    string
	Title     string
	SKU       string
	Price     decimal.Decimal
	Currency  string
	Quantity  int
	Active    bool
}

// NewListing creates a new active listing
func NewListing(accountID uuid.UUID, itemID, title string) (*Listing, error) {
	itemID = strings.TrimSpace(itemID)
	title = strings.TrimSpace(title)

	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if itemID == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_ID", "Item ID cannot be empty")
	}
	if len(itemID) > 64 {
		return nil, shared.NewDomainError("INVALID_ITEM_ID", "Item ID cannot exceed 64 characters")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}

	return &Listing{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  accountID,
		ItemID:     itemID,
		Title:      title,
		Price:      decimal.Zero,
		Currency:   "USD",
		Quantity:   0,
		Active:     true,
	}, nil
}

// SetPrice sets the listing price
func (l *Listing) SetPrice(price decimal.Decimal, currency string) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	l.Price = price
	if currency != "" {
		l.Currency = strings.ToUpper(currency)
	}
	l.Touch()
	return nil
}

// SetQuantity sets the available quantity
func (l *Listing) SetQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	l.Quantity = quantity
	l.Touch()
	return nil
}

// SetSKU sets the seller-defined SKU
func (l *Listing) SetSKU(sku string) {
	l.SKU = strings.TrimSpace(sku)
	l.Touch()
}

// End marks the listing as no longer active on the marketplace
func (l *Listing) End() {
	l.Active = false
	l.Touch()
}
