package csvimport

import "strings"

// RecordKind identifies which marketplace export shape a file carries
type RecordKind string

const (
	KindOrder   RecordKind = "order"
	KindListing RecordKind = "listing"
)

// IsValidRecordKind checks if the kind string names a known schema
func IsValidRecordKind(kind string) bool {
	switch RecordKind(kind) {
	case KindOrder, KindListing:
		return true
	}
	return false
}

// Schema describes the tabular shape of one record kind: the columns the
// header must carry and which column derives the natural key.
type Schema struct {
	Kind             RecordKind
	RequiredColumns  []string
	NaturalKeyColumn string
	// sellerColumns are optional metadata columns a seller username token
	// may be detected from, in preference order.
	sellerColumns []string
}

// SchemaFor returns the schema for a record kind
func SchemaFor(kind RecordKind) (Schema, error) {
	switch kind {
	case KindOrder:
		return Schema{
			Kind:             KindOrder,
			RequiredColumns:  []string{"Order Number", "Item Id", "Buyer"},
			NaturalKeyColumn: "Order Number",
			sellerColumns:    []string{"Seller Username", "Seller"},
		}, nil
	case KindListing:
		return Schema{
			Kind:             KindListing,
			RequiredColumns:  []string{"Item Id", "Title"},
			NaturalKeyColumn: "Item Id",
			sellerColumns:    []string{"Seller Username", "Seller"},
		}, nil
	default:
		return Schema{}, ErrUnknownRecordKind
	}
}

// NormalizedRecord is one parsed data row plus its derived natural key.
// RowIndex is 1-based and excludes the header row. Immutable once parsed.
type NormalizedRecord struct {
	RowIndex   int
	NaturalKey string
	Fields     map[string]string
}

// Get returns the raw value for a column, empty when absent
func (r *NormalizedRecord) Get(column string) string {
	return r.Fields[column]
}

// GetOrDefault returns the value for a column, or default when empty
func (r *NormalizedRecord) GetOrDefault(column, defaultVal string) string {
	if v, ok := r.Fields[column]; ok && v != "" {
		return v
	}
	return defaultVal
}

// SellerToken extracts a seller-username token from the record's metadata
// columns, empty when none is present.
func (s Schema) SellerToken(r *NormalizedRecord) string {
	for _, col := range s.sellerColumns {
		if v := strings.TrimSpace(r.Get(col)); v != "" {
			return v
		}
	}
	return ""
}

// missingColumns returns the required columns absent from the header map
func (s Schema) missingColumns(headerMap map[string]int) []string {
	var missing []string
	for _, col := range s.RequiredColumns {
		if _, ok := headerMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
