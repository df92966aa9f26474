package account

import (
	"strings"

	"github.com/sellerdesk/backend/internal/domain/shared"
)

// Platform identifies the marketplace an account belongs to
type Platform string

const (
	PlatformEbay    Platform = "ebay"
	PlatformEtsy    Platform = "etsy"
	PlatformAmazon  Platform = "amazon"
	PlatformGeneric Platform = "generic"
)

// IsValid checks if the platform is a known value
func (p Platform) IsValid() bool {
	switch p {
	case PlatformEbay, PlatformEtsy, PlatformAmazon, PlatformGeneric:
		return true
	}
	return false
}

// Account represents a marketplace seller account managed by the back office
type Account struct {
	shared.BaseEntity
	DisplayName      string
	PlatformUsername string
	Platform         Platform
	Active           bool
	Notes            string
}

// NewAccount creates a new seller account
func NewAccount(displayName, platformUsername string, platform Platform) (*Account, error) {
	displayName = strings.TrimSpace(displayName)
	platformUsername = strings.TrimSpace(platformUsername)

	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 200 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	if platformUsername == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Platform username cannot be empty")
	}
	if len(platformUsername) > 100 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Platform username cannot exceed 100 characters")
	}
	if platform == "" {
		platform = PlatformGeneric
	}
	if !platform.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Unknown marketplace platform")
	}

	return &Account{
		BaseEntity:       shared.NewBaseEntity(),
		DisplayName:      displayName,
		PlatformUsername: platformUsername,
		Platform:         platform,
		Active:           true,
	}, nil
}

// Rename updates the display name
func (a *Account) Rename(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	}
	a.DisplayName = displayName
	a.Touch()
	return nil
}

// Deactivate marks the account inactive; inactive accounts are excluded from
// match suggestions but keep their historical data.
func (a *Account) Deactivate() {
	a.Active = false
	a.Touch()
}

// SetNotes sets free-form operator notes
func (a *Account) SetNotes(notes string) {
	a.Notes = notes
	a.Touch()
}
