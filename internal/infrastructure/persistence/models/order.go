package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity. The
// composite unique index on (account_id, order_number) enforces the natural
// key and backstops concurrent imports of overlapping files.
type OrderModel struct {
	BaseModel
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_orders_account_number,priority:1"`
	OrderNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_account_number,priority:2"`
	ItemID      string          `gorm:"type:varchar(64);not null;index"`
	BuyerName   string          `gorm:"type:varchar(200)"`
	Quantity    int             `gorm:"not null;default:1"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Status      order.Status    `gorm:"type:varchar(20);not null;default:'pending';index"`
	OrderedAt   *time.Time      `gorm:"index"`
	ShippedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	return &order.Order{
		BaseEntity:  m.BaseModel.ToDomain(),
		AccountID:   m.AccountID,
		OrderNumber: m.OrderNumber,
		ItemID:      m.ItemID,
		BuyerName:   m.BuyerName,
		Quantity:    m.Quantity,
		TotalAmount: m.TotalAmount,
		Currency:    m.Currency,
		Status:      m.Status,
		OrderedAt:   m.OrderedAt,
		ShippedAt:   m.ShippedAt,
		CompletedAt: m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.AccountID = o.AccountID
	m.OrderNumber = o.OrderNumber
	m.ItemID = o.ItemID
	m.BuyerName = o.BuyerName
	m.Quantity = o.Quantity
	m.TotalAmount = o.TotalAmount
	m.Currency = o.Currency
	m.Status = o.Status
	m.OrderedAt = o.OrderedAt
	m.ShippedAt = o.ShippedAt
	m.CompletedAt = o.CompletedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
