package feed

import (
	"errors"
	"time"

	"github.com/sellercentric/backend/internal/domain/shared"
)

var (
	ErrDocumentNotFound    = errors.New("feed: staged document not found")
	ErrStagedOrderNotFound = errors.New("feed: staged order not found")
)

// DocumentStatus tracks a staged document from download through extraction
type DocumentStatus string

const (
	// DocumentDownloaded means stored and valid, waiting for extraction
	DocumentDownloaded DocumentStatus = "DOWNLOADED"
	// DocumentDownloadError means the payload could not be fetched or was
	// malformed
	DocumentDownloadError DocumentStatus = "DOWNLOAD_ERROR"
	// DocumentExtracted means orders were pulled out of the payload
	DocumentExtracted DocumentStatus = "EXTRACTED"
	// DocumentExtractError means the last extraction attempt failed
	DocumentExtractError DocumentStatus = "EXTRACT_ERROR"
)

// IsValid returns true if the document status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentDownloaded, DocumentDownloadError,
		DocumentExtracted, DocumentExtractError:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// AckStatus tracks acknowledgment of a staged document to the marketplace,
// independently of the extraction lifecycle
type AckStatus string

const (
	AckNotAcked AckStatus = "NOT_ACKED"
	AckSent     AckStatus = "ACK_SENT"
	AckOK       AckStatus = "ACK_OK"
	AckError    AckStatus = "ACK_ERROR"
)

// IsValid returns true if the ack status is valid
func (s AckStatus) IsValid() bool {
	switch s {
	case AckNotAcked, AckSent, AckOK, AckError:
		return true
	}
	return false
}

// String returns the string representation of AckStatus
func (s AckStatus) String() string {
	return string(s)
}

// DocumentType classifies what a staged document contains
type DocumentType string

const (
	DocumentTypeOrderReport DocumentType = "ORDER_REPORT"
)

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// StagedDocument is a raw marketplace document held for processing. The
// external document id is the idempotency key: fetching the same report
// twice must not create a second row. Staged documents are never deleted.
type StagedDocument struct {
	shared.BaseAggregateRoot
	ExternalDocumentID string
	Type               DocumentType
	Status             DocumentStatus
	AckStatus          AckStatus
	Payload            []byte
	// ArchiveKey is the object storage location of the raw payload once
	// archived, empty until then
	ArchiveKey string
	// SubmissionID and AckMessageID correlate the in-flight
	// acknowledgment feed line back to this document
	SubmissionID string
	AckMessageID int
	GeneratedAt  time.Time
	DownloadedAt time.Time
	ExtractedAt  *time.Time
	AckedAt      *time.Time
	FailureCount int
	LastError    string
}

// NewStagedDocument stages a freshly downloaded document
func NewStagedDocument(externalDocumentID string, docType DocumentType, payload []byte, generatedAt, downloadedAt time.Time) (*StagedDocument, error) {
	if externalDocumentID == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_ID", "External document id cannot be empty")
	}
	return &StagedDocument{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ExternalDocumentID: externalDocumentID,
		Type:               docType,
		Status:             DocumentDownloaded,
		AckStatus:          AckNotAcked,
		Payload:            payload,
		GeneratedAt:        generatedAt,
		DownloadedAt:       downloadedAt,
	}, nil
}

// MarkDownloaded records a successful download, clearing any earlier
// download failure so the document can proceed to extraction
func (d *StagedDocument) MarkDownloaded(payload []byte, at time.Time) {
	d.Status = DocumentDownloaded
	d.Payload = payload
	d.DownloadedAt = at
	d.FailureCount = 0
	d.LastError = ""
	d.Touch()
}

// MarkDownloadError records a failed or malformed download
func (d *StagedDocument) MarkDownloadError(cause error) {
	d.Status = DocumentDownloadError
	d.FailureCount++
	if cause != nil {
		d.LastError = cause.Error()
	}
	d.Touch()
}

// MarkExtracted records a successful extraction and clears the error state
func (d *StagedDocument) MarkExtracted(at time.Time) {
	d.Status = DocumentExtracted
	d.ExtractedAt = &at
	d.FailureCount = 0
	d.LastError = ""
	d.Touch()
}

// MarkExtractError records a failed extraction attempt
func (d *StagedDocument) MarkExtractError(cause error) {
	d.Status = DocumentExtractError
	d.FailureCount++
	if cause != nil {
		d.LastError = cause.Error()
	}
	d.Touch()
}

// MarkAckSent records that an acknowledgment feed referencing this
// document was submitted, remembering which message in the batch is ours
func (d *StagedDocument) MarkAckSent(submissionID string, messageID int) {
	d.AckStatus = AckSent
	d.SubmissionID = submissionID
	d.AckMessageID = messageID
	d.Touch()
}

// IsExtractable reports whether extraction may run against this document
// under the given retry policy
func (d *StagedDocument) IsExtractable(policy RetryPolicy) bool {
	if policy.Exhausted(d.FailureCount) {
		return false
	}
	return d.Status == DocumentDownloaded || d.Status == DocumentExtractError
}

// SuccessStatus implements AckTarget
func (d *StagedDocument) SuccessStatus() AckStatus { return AckOK }

// ErrorStatus implements AckTarget
func (d *StagedDocument) ErrorStatus() AckStatus { return AckError }

// ApplyAckResult implements AckTarget, recording the outcome reported by
// the marketplace for this document's ack line
func (d *StagedDocument) ApplyAckResult(status AckStatus, message string, at time.Time) {
	d.AckStatus = status
	if status == AckOK {
		d.AckedAt = &at
		d.LastError = ""
	} else if message != "" {
		d.LastError = message
	}
	d.Touch()
}

// RetryPolicy bounds how many times a failing document or staged order is
// reattempted before being left alone
type RetryPolicy struct {
	MaxFailures int
}

// Exhausted reports whether the failure count has reached the ceiling.
// A non-positive ceiling means retry forever.
func (p RetryPolicy) Exhausted(failures int) bool {
	return p.MaxFailures > 0 && failures >= p.MaxFailures
}
