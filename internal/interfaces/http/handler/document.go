package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	"github.com/sellercentric/backend/internal/domain/feed"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/interfaces/http/dto"
)

const archiveURLExpiry = 15 * time.Minute

// DocumentHandler serves the staged document and staged order read API
type DocumentHandler struct {
	BaseHandler
	docRepo   feed.StagedDocumentRepository
	orderRepo feed.StagedOrderRepository
	storage   feedapp.ObjectStorageService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(
	docRepo feed.StagedDocumentRepository,
	orderRepo feed.StagedOrderRepository,
	storage feedapp.ObjectStorageService,
) *DocumentHandler {
	return &DocumentHandler{
		docRepo:   docRepo,
		orderRepo: orderRepo,
		storage:   storage,
	}
}

// RegisterRoutes registers staging read routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.GET("", h.ListDocuments)
		documents.GET("/:id", h.GetDocument)
		documents.GET("/:id/archive-url", h.GetArchiveURL)
	}

	orders := rg.Group("/staged-orders")
	{
		orders.GET("", h.ListStagedOrders)
		orders.GET("/:id", h.GetStagedOrder)
	}
}

// ListDocuments returns a page of staged documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var req dto.DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.ApplyDefaults()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.AckStatus != "" {
		filter.Filters["ack_status"] = req.AckStatus
	}
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}

	docs, err := h.docRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.docRepo.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewDocumentListResponse(docs), total, req.Page, req.PageSize)
}

// GetDocument returns one staged document
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, ok := h.findDocument(c)
	if !ok {
		return
	}
	h.Success(c, dto.NewDocumentResponse(doc))
}

// GetArchiveURL returns a presigned download link for the archived raw payload
func (h *DocumentHandler) GetArchiveURL(c *gin.Context) {
	doc, ok := h.findDocument(c)
	if !ok {
		return
	}
	if doc.ArchiveKey == "" {
		h.NotFound(c, "Document payload has not been archived")
		return
	}

	url, expiresAt, err := h.storage.GenerateDownloadURL(c.Request.Context(), doc.ArchiveKey, archiveURLExpiry)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ArchiveURLResponse{URL: url, ExpiresAt: expiresAt})
}

// ListStagedOrders returns a page of staged orders
func (h *DocumentHandler) ListStagedOrders(c *gin.Context) {
	var req dto.StagedOrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.ApplyDefaults()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.DocumentID != "" {
		filter.Filters["document_id"] = req.DocumentID
	}
	if req.FulfillmentClass != "" {
		filter.Filters["fulfillment_class"] = req.FulfillmentClass
	}

	orders, err := h.orderRepo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.orderRepo.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, dto.NewStagedOrderListResponse(orders), total, req.Page, req.PageSize)
}

// GetStagedOrder returns one staged order with its line items
func (h *DocumentHandler) GetStagedOrder(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	so, err := h.orderRepo.FindByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewStagedOrderResponse(so))
}

func (h *DocumentHandler) findDocument(c *gin.Context) (*feed.StagedDocument, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return nil, false
	}

	doc, err := h.docRepo.FindByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return doc, true
}
