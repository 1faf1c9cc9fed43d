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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// StagedDocumentSortFields contains allowed sort fields for staged documents
var StagedDocumentSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"external_document_id": true,
	"type":                 true,
	"status":               true,
	"ack_status":           true,
	"generated_at":         true,
	"downloaded_at":        true,
	"failure_count":        true,
}

// StagedOrderSortFields contains allowed sort fields for staged orders
var StagedOrderSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"external_order_id": true,
	"status":            true,
	"order_date":        true,
	"buyer_email":       true,
	"failure_count":     true,
	"imported_at":       true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"order_number":      true,
	"external_order_id": true,
	"sales_channel":     true,
	"status":            true,
	"party_id":          true,
}

// PartySortFields contains allowed sort fields for parties
var PartySortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"external_email": true,
	"last_name":      true,
	"classification": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"type":           true,
	"status":         true,
	"party_id":       true,
	"invoice_date":   true,
	"due_date":       true,
	"total":          true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"upc":        true,
	"name":       true,
	"list_price": true,
	"is_active":  true,
}
