package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// AccountSortFields contains allowed sort fields for seller accounts
var AccountSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"display_name":      true,
	"platform_username": true,
	"platform":          true,
	"active":            true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"item_id":      true,
	"buyer_name":   true,
	"status":       true,
	"total_amount": true,
	"ordered_at":   true,
	"shipped_at":   true,
	"completed_at": true,
}

// ListingSortFields contains allowed sort fields for listings
var ListingSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"item_id":    true,
	"title":      true,
	"sku":        true,
	"price":      true,
	"quantity":   true,
	"active":     true,
}

// ImportHistorySortFields contains allowed sort fields for import histories
var ImportHistorySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"started_at":   true,
	"completed_at": true,
	"file_name":    true,
	"status":       true,
	"total_rows":   true,
}
