package feed

import (
	"time"

	"github.com/sellercentric/backend/internal/domain/shared"
)

// FeedKind identifies an outbound feed document type
type FeedKind string

const (
	FeedProduct          FeedKind = "PRODUCT"
	FeedPrice            FeedKind = "PRICE"
	FeedInventory        FeedKind = "INVENTORY"
	FeedOrderFulfillment FeedKind = "ORDER_FULFILLMENT"
	FeedOrderAck         FeedKind = "ORDER_ACKNOWLEDGEMENT"
)

// String returns the string representation of FeedKind
func (k FeedKind) String() string {
	return string(k)
}

// StagedFeed records an outbound feed submission so its processing report
// can be reconciled later through the same ack loop as inbound documents
type StagedFeed struct {
	shared.BaseAggregateRoot
	Kind         FeedKind
	SubmissionID string
	AckStatus    AckStatus
	MessageCount int
	SubmittedAt  time.Time
	ReconciledAt *time.Time
	LastError    string
}

// NewStagedFeed records a submitted outbound feed awaiting its report
func NewStagedFeed(kind FeedKind, submissionID string, messageCount int, submittedAt time.Time) (*StagedFeed, error) {
	if submissionID == "" {
		return nil, shared.NewDomainError("INVALID_SUBMISSION_ID", "Submission id cannot be empty")
	}
	return &StagedFeed{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		SubmissionID:      submissionID,
		AckStatus:         AckSent,
		MessageCount:      messageCount,
		SubmittedAt:       submittedAt,
	}, nil
}

// SuccessStatus implements AckTarget
func (f *StagedFeed) SuccessStatus() AckStatus { return AckOK }

// ErrorStatus implements AckTarget
func (f *StagedFeed) ErrorStatus() AckStatus { return AckError }

// ApplyAckResult implements AckTarget
func (f *StagedFeed) ApplyAckResult(status AckStatus, message string, at time.Time) {
	f.AckStatus = status
	f.ReconciledAt = &at
	if message != "" {
		f.LastError = message
	}
	f.Touch()
}
