package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// DocumentListRequest filters the staged document listing
type DocumentListRequest struct {
	ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=DOWNLOADED DOWNLOAD_ERROR EXTRACTED EXTRACT_ERROR"`
	AckStatus string `form:"ack_status" binding:"omitempty,oneof=NOT_ACKED ACK_SENT ACK_OK ACK_ERROR"`
	Type      string `form:"type"`
}

// StagedOrderListRequest filters the staged order listing
type StagedOrderListRequest struct {
	ListRequest
	Status           string `form:"status" binding:"omitempty,oneof=CREATED IMPORT_ERROR IMPORTED"`
	DocumentID       string `form:"document_id" binding:"omitempty,uuid"`
	FulfillmentClass string `form:"fulfillment_class"`
}

// DocumentResponse is one staged document in API responses
type DocumentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ExternalDocumentID string     `json:"external_document_id"`
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	AckStatus          string     `json:"ack_status"`
	SubmissionID       string     `json:"submission_id,omitempty"`
	GeneratedAt        time.Time  `json:"generated_at"`
	DownloadedAt       time.Time  `json:"downloaded_at"`
	ExtractedAt        *time.Time `json:"extracted_at,omitempty"`
	AckedAt            *time.Time `json:"acked_at,omitempty"`
	FailureCount       int        `json:"failure_count"`
	LastError          string     `json:"last_error,omitempty"`
	Archived           bool       `json:"archived"`
}

// NewDocumentResponse maps a staged document to its API shape
func NewDocumentResponse(d *feed.StagedDocument) DocumentResponse {
	return DocumentResponse{
		ID:                 d.ID,
		ExternalDocumentID: d.ExternalDocumentID,
		Type:               d.Type.String(),
		Status:             d.Status.String(),
		AckStatus:          d.AckStatus.String(),
		SubmissionID:       d.SubmissionID,
		GeneratedAt:        d.GeneratedAt,
		DownloadedAt:       d.DownloadedAt,
		ExtractedAt:        d.ExtractedAt,
		AckedAt:            d.AckedAt,
		FailureCount:       d.FailureCount,
		LastError:          d.LastError,
		Archived:           d.ArchiveKey != "",
	}
}

// NewDocumentListResponse maps a page of staged documents
func NewDocumentListResponse(docs []*feed.StagedDocument) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d))
	}
	return out
}

// ArchiveURLResponse carries a presigned download link for an archived payload
type ArchiveURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StagedOrderItemResponse is one line of a staged order
type StagedOrderItemResponse struct {
	ExternalItemID string `json:"external_item_id"`
	ProductCode    string `json:"product_code"`
	Description    string `json:"description,omitempty"`
	Quantity       string `json:"quantity"`
}

// StagedOrderResponse is one staged order in API responses
type StagedOrderResponse struct {
	ID              uuid.UUID                 `json:"id"`
	DocumentID      uuid.UUID                 `json:"document_id"`
	ExternalOrderID string                    `json:"external_order_id"`
	Status          string                    `json:"status"`
	OrderDate       time.Time                 `json:"order_date"`
	BuyerName       string                    `json:"buyer_name"`
	BuyerEmail      string                    `json:"buyer_email"`
	ShipCity        string                    `json:"ship_city,omitempty"`
	ShipState       string                    `json:"ship_state,omitempty"`
	ShipCountry     string                    `json:"ship_country,omitempty"`
	CurrencyCode    string                    `json:"currency_code"`
	Items           []StagedOrderItemResponse `json:"items,omitempty"`
	ImportedOrderID *uuid.UUID                `json:"imported_order_id,omitempty"`
	ImportedAt      *time.Time                `json:"imported_at,omitempty"`
	FailureCount    int                       `json:"failure_count"`
	LastError       string                    `json:"last_error,omitempty"`
}

// NewStagedOrderResponse maps a staged order to its API shape
func NewStagedOrderResponse(so *feed.StagedOrder) StagedOrderResponse {
	items := make([]StagedOrderItemResponse, 0, len(so.Items))
	for _, item := range so.Items {
		items = append(items, StagedOrderItemResponse{
			ExternalItemID: item.ExternalItemID,
			ProductCode:    item.ProductCode,
			Description:    item.Description,
			Quantity:       item.Quantity.String(),
		})
	}
	return StagedOrderResponse{
		ID:              so.ID,
		DocumentID:      so.DocumentID,
		ExternalOrderID: so.ExternalOrderID,
		Status:          so.Status.String(),
		OrderDate:       so.OrderDate,
		BuyerName:       so.BuyerName,
		BuyerEmail:      so.BuyerEmail,
		ShipCity:        so.ShipCity,
		ShipState:       so.ShipState,
		ShipCountry:     so.ShipCountry,
		CurrencyCode:    so.CurrencyCode,
		Items:           items,
		ImportedOrderID: so.ImportedOrderID,
		ImportedAt:      so.ImportedAt,
		FailureCount:    so.FailureCount,
		LastError:       so.LastError,
	}
}

// NewStagedOrderListResponse maps a page of staged orders, omitting line items
func NewStagedOrderListResponse(orders []*feed.StagedOrder) []StagedOrderResponse {
	out := make([]StagedOrderResponse, 0, len(orders))
	for _, so := range orders {
		resp := NewStagedOrderResponse(so)
		resp.Items = nil
		out = append(out, resp)
	}
	return out
}

// JobNameRequest identifies a background job by name
type JobNameRequest struct {
	Name string `uri:"name" binding:"required"`
}

// FulfillmentRequest queues one shipment confirmation for the outbound
// fulfillment feed
type FulfillmentRequest struct {
	ExternalOrderID string     `json:"external_order_id" binding:"required"`
	CarrierCode     string     `json:"carrier_code" binding:"required"`
	ShippingMethod  string     `json:"shipping_method" binding:"required"`
	TrackingNumber  string     `json:"tracking_number"`
	FulfilledAt     *time.Time `json:"fulfilled_at"`
}

// FulfillmentFeedRequest is a batch of shipment confirmations
type FulfillmentFeedRequest struct {
	Fulfillments []FulfillmentRequest `json:"fulfillments" binding:"required,min=1,max=500,dive"`
}
