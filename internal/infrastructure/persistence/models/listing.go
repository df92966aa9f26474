package models

import (
	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// ListingModel is the persistence model for the Listing domain entity. The
// composite unique index on (account_id, item_id) enforces the natural key.
type ListingModel struct {
	BaseModel
	AccountID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_listings_account_item,priority:1"`
	ItemID    string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_listings_account_item,priority:2"`
	Title     string          `gorm:"type:varchar(500);not null"`
	SKU       string          `gorm:"type:varchar(100);index"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency  string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Quantity  int             `gorm:"not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model to a domain Listing entity.
func (m *ListingModel) ToDomain() *listing.Listing {
	return &listing.Listing{
		BaseEntity: m.BaseModel.ToDomain(),
		AccountID:  m.AccountID,
		ItemID:     m.ItemID,
		Title:      m.Title,
		SKU:        m.SKU,
		Price:      m.Price,
		Currency:   m.Currency,
		Quantity:   m.Quantity,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Listing entity.
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.AccountID = l.AccountID
	m.ItemID = l.ItemID
	m.Title = l.Title
	m.SKU = l.SKU
	m.Price = l.Price
	m.Currency = l.Currency
	m.Quantity = l.Quantity
	m.Active = l.Active
}

// ListingModelFromDomain creates a new persistence model from a domain Listing entity.
func ListingModelFromDomain(l *listing.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}
