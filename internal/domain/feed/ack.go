package feed

import (
	"time"
)

// AckTarget is implemented by records that can be acknowledged to the
// marketplace. A target contributes one line to an ack batch and receives
// the per-message outcome when the processing report arrives.
type AckTarget interface {
	SuccessStatus() AckStatus
	ErrorStatus() AckStatus
	ApplyAckResult(status AckStatus, message string, at time.Time)
}

// AckLine is one message inside an ack batch, correlated to its source
// record by message id
type AckLine struct {
	MessageID          int
	ExternalDocumentID string
	Target             AckTarget
}

// AckBatch assembles acknowledgment lines with monotonically increasing
// message ids starting at 1
type AckBatch struct {
	lines []AckLine
}

// NewAckBatch creates an empty batch
func NewAckBatch() *AckBatch {
	return &AckBatch{lines: make([]AckLine, 0)}
}

// Add appends a line for the given document, assigning the next message id
func (b *AckBatch) Add(externalDocumentID string, target AckTarget) AckLine {
	line := AckLine{
		MessageID:          len(b.lines) + 1,
		ExternalDocumentID: externalDocumentID,
		Target:             target,
	}
	b.lines = append(b.lines, line)
	return line
}

// Lines returns the batch lines in message id order
func (b *AckBatch) Lines() []AckLine {
	return b.lines
}

// IsEmpty reports whether the batch has no lines
func (b *AckBatch) IsEmpty() bool {
	return len(b.lines) == 0
}

// ApplyToAllMessageID is the sentinel message id the marketplace uses for a
// result that applies to every message in the batch
const ApplyToAllMessageID = 0

// ProcessingResult is one per-message outcome from a processing report
type ProcessingResult struct {
	MessageID   int
	Code        string
	Description string
}

// IsError reports whether the result code indicates a failure
func (r ProcessingResult) IsError() bool {
	return r.Code != "" && r.Code != "Success"
}

// ProcessingReport is the marketplace's verdict on a submitted feed
type ProcessingReport struct {
	SubmissionID string
	Processed    int
	Successful   int
	WithErrors   int
	Results      []ProcessingResult
}

// BatchError returns the result applying to the whole batch, if the
// report carries one under the sentinel message id
func (r ProcessingReport) BatchError() (ProcessingResult, bool) {
	for _, res := range r.Results {
		if res.MessageID == ApplyToAllMessageID && res.IsError() {
			return res, true
		}
	}
	return ProcessingResult{}, false
}

// ResultFor returns the result addressed to a specific message id
func (r ProcessingReport) ResultFor(messageID int) (ProcessingResult, bool) {
	for _, res := range r.Results {
		if res.MessageID == messageID {
			return res, true
		}
	}
	return ProcessingResult{}, false
}

// Reconcile fans the report's outcomes back onto the batch's targets
func (b *AckBatch) Reconcile(report ProcessingReport, at time.Time) {
	ApplyReport(report, b.lines, at)
}

// ApplyReport fans a processing report's outcomes onto correlated targets.
// A sentinel batch-wide error overrides individual results; messages the
// report does not mention are treated as successful, matching how the
// marketplace omits clean messages.
func ApplyReport(report ProcessingReport, lines []AckLine, at time.Time) {
	if batchErr, ok := report.BatchError(); ok {
		for _, line := range lines {
			line.Target.ApplyAckResult(line.Target.ErrorStatus(), batchErr.Description, at)
		}
		return
	}
	for _, line := range lines {
		res, ok := report.ResultFor(line.MessageID)
		if ok && res.IsError() {
			line.Target.ApplyAckResult(line.Target.ErrorStatus(), res.Description, at)
			continue
		}
		line.Target.ApplyAckResult(line.Target.SuccessStatus(), "", at)
	}
}
