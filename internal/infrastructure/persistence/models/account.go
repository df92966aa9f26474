package models

import (
	"github.com/sellerdesk/backend/internal/domain/account"
)

// AccountModel is the persistence model for the Account domain entity.
type AccountModel struct {
	BaseModel
	DisplayName      string           `gorm:"type:varchar(200);not null"`
	PlatformUsername string           `gorm:"type:varchar(100);not null;index"`
	Platform         account.Platform `gorm:"type:varchar(20);not null;default:'generic'"`
	Active           bool             `gorm:"not null;default:true"`
	Notes            string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *account.Account {
	return &account.Account{
		BaseEntity:       m.BaseModel.ToDomain(),
		DisplayName:      m.DisplayName,
		PlatformUsername: m.PlatformUsername,
		Platform:         m.Platform,
		Active:           m.Active,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *account.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.DisplayName = a.DisplayName
	m.PlatformUsername = a.PlatformUsername
	m.Platform = a.Platform
	m.Active = a.Active
	m.Notes = a.Notes
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *account.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
