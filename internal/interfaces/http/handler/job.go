package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	"github.com/sellercentric/backend/internal/infrastructure/scheduler"
	"github.com/sellercentric/backend/internal/interfaces/http/dto"
)

// JobRunner exposes the background job scheduler to the admin API
type JobRunner interface {
	TriggerAsync(name string) error
	Statuses() []scheduler.JobStatus
}

// FulfillmentPusher submits shipment confirmation feeds
type FulfillmentPusher interface {
	PushFulfillmentFeed(ctx context.Context, messages []feedapp.FulfillmentFeedMessage) (*feedapp.OutboundResult, error)
}

// JobHandler serves background job control endpoints
type JobHandler struct {
	BaseHandler
	jobs     JobRunner
	outbound FulfillmentPusher
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs JobRunner, outbound FulfillmentPusher) *JobHandler {
	return &JobHandler{
		jobs:     jobs,
		outbound: outbound,
	}
}

// RegisterRoutes registers job control routes
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.POST("/:name/run", h.RunJob)
	}

	rg.POST("/feeds/fulfillments", h.PushFulfillments)
}

// ListJobs returns the status of every registered background job
func (h *JobHandler) ListJobs(c *gin.Context) {
	h.Success(c, h.jobs.Statuses())
}

// RunJob triggers a background job outside its schedule
func (h *JobHandler) RunJob(c *gin.Context) {
	var req dto.JobNameRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err := h.jobs.TriggerAsync(req.Name)
	switch {
	case err == nil:
		h.Accepted(c, gin.H{"job": req.Name})
	case errors.Is(err, scheduler.ErrUnknownJob):
		h.NotFound(c, "No such job: "+req.Name)
	case errors.Is(err, scheduler.ErrJobAlreadyRunning):
		h.Conflict(c, dto.ErrCodeJobRunning, "Job is already running: "+req.Name)
	default:
		h.HandleError(c, err)
	}
}

// PushFulfillments submits a shipment confirmation feed for the given orders
func (h *JobHandler) PushFulfillments(c *gin.Context) {
	var req dto.FulfillmentFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	messages := make([]feedapp.FulfillmentFeedMessage, 0, len(req.Fulfillments))
	for _, f := range req.Fulfillments {
		fulfilledAt := time.Now().UTC()
		if f.FulfilledAt != nil {
			fulfilledAt = *f.FulfilledAt
		}
		messages = append(messages, feedapp.FulfillmentFeedMessage{
			ExternalOrderID: f.ExternalOrderID,
			CarrierCode:     f.CarrierCode,
			ShippingMethod:  f.ShippingMethod,
			TrackingNumber:  f.TrackingNumber,
			FulfilledAt:     fulfilledAt,
		})
	}

	result, err := h.outbound.PushFulfillmentFeed(c.Request.Context(), messages)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, result)
}
