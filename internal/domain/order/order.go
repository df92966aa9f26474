package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the fulfillment status of a marketplace order.
// An order holds exactly one status at a time and it changes only through
// Transition, never by direct assignment from callers.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusShipped
	case StatusProcessing:
		return target == StatusShipped || target == StatusCompleted
	case StatusShipped:
		return target == StatusCompleted
	case StatusCompleted:
		return false // Terminal state
	}
	return false
}

// Order represents one marketplace order tracked for a seller account.
// OrderNumber is the marketplace-assigned identifier and acts as the natural
// key within the account's scope.
type Order struct {
	shared.BaseEntity
	AccountID   uuid.UUID
	OrderNumber string
	ItemID      string
	BuyerName   string
	Quantity    int
	TotalAmount decimal.Decimal
	Currency    string
	Status      Status
	OrderedAt   *time.Time
	ShippedAt   *time.Time
	CompletedAt *time.Time
}

// NewOrder creates a new order in the pending status
func NewOrder(accountID uuid.UUID, orderNumber, itemID, buyerName string) (*Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	itemID = strings.TrimSpace(itemID)

	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 64 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 64 characters")
	}
	if itemID == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_ID", "Item ID cannot be empty")
	}

	return &Order{
		BaseEntity:  shared.NewBaseEntity(),
		AccountID:   accountID,
		OrderNumber: orderNumber,
		ItemID:      itemID,
		BuyerName:   strings.TrimSpace(buyerName),
		Quantity:    1,
		TotalAmount: decimal.Zero,
		Currency:    "USD",
		Status:      StatusPending,
	}, nil
}

// SetAmount sets the order total
func (o *Order) SetAmount(amount decimal.Decimal, currency string) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order amount cannot be negative")
	}
	o.TotalAmount = amount
	if currency != "" {
		o.Currency = strings.ToUpper(currency)
	}
	o.Touch()
	return nil
}

// SetQuantity sets the ordered quantity
func (o *Order) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	o.Quantity = quantity
	o.Touch()
	return nil
}

// SetOrderedAt records when the marketplace reported the order as placed
func (o *Order) SetOrderedAt(ts time.Time) {
	o.OrderedAt = &ts
	o.Touch()
}

// Transition moves the order to the target status if the transition table
// allows it. Timestamps for shipped/completed are recorded on the way.
func (o *Order) Transition(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+target.String())
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot transition order from "+o.Status.String()+" to "+target.String())
	}

	now := time.Now()
	switch target {
	case StatusShipped:
		o.ShippedAt = &now
	case StatusCompleted:
		o.CompletedAt = &now
	}
	o.Status = target
	o.Touch()
	return nil
}
