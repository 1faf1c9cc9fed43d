package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sellercentric/backend/internal/domain/feed"
)

// maxResponseSize is the maximum allowed response size from the
// marketplace API (25MB, order reports can be large)
const maxResponseSize = 25 * 1024 * 1024

// Request errors
var (
	ErrRequestFailed   = errors.New("marketplace: request failed")
	ErrInvalidResponse = errors.New("marketplace: invalid response")
	ErrUnavailable     = errors.New("marketplace: service unavailable")
)

// Client implements the MarketplaceClient port over the marketplace's
// HTTP feed API
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new marketplace API Client
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}, nil
}

// ListPendingDocuments returns documents of the given type awaiting download
func (c *Client) ListPendingDocuments(ctx context.Context, docType feed.DocumentType) ([]feed.PendingDocument, error) {
	query := url.Values{}
	query.Set("type", string(docType))
	query.Set("sellerId", c.config.SellerID)

	body, err := c.doRequest(ctx, http.MethodGet, "/documents?"+query.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var resp documentListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	pending := make([]feed.PendingDocument, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		pending = append(pending, feed.PendingDocument{
			ExternalDocumentID: d.DocumentID,
			Type:               feed.DocumentType(d.Type),
			GeneratedAt:        d.GeneratedAt,
		})
	}
	return pending, nil
}

// GetDocument downloads a document's raw payload
func (c *Client) GetDocument(ctx context.Context, externalDocumentID string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(externalDocumentID), nil, "")
}

// SubmitFeed uploads a feed document and returns the marketplace's
// submission id
func (c *Client) SubmitFeed(ctx context.Context, feedType string, payload []byte) (string, error) {
	query := url.Values{}
	query.Set("type", feedType)
	query.Set("sellerId", c.config.SellerID)

	body, err := c.doRequest(ctx, http.MethodPost, "/feeds?"+query.Encode(), payload, "application/xml")
	if err != nil {
		return "", err
	}

	var resp feedSubmissionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.SubmissionID == "" {
		return "", fmt.Errorf("%w: submission id missing", ErrInvalidResponse)
	}
	return resp.SubmissionID, nil
}

// GetFeedSubmissionResult fetches the processing report for a prior
// submission. Returns feed.ErrResultNotReady while the marketplace is
// still processing.
func (c *Client) GetFeedSubmissionResult(ctx context.Context, submissionID string) (feed.ProcessingReport, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/feeds/"+url.PathEscape(submissionID)+"/result", nil, "")
	if err != nil {
		return feed.ProcessingReport{}, err
	}
	if body == nil {
		return feed.ProcessingReport{}, feed.ErrResultNotReady
	}

	var resp submissionResultResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return feed.ProcessingReport{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	report := feed.ProcessingReport{
		SubmissionID: resp.SubmissionID,
		Processed:    resp.Processed,
		Successful:   resp.Successful,
		WithErrors:   resp.WithErrors,
		Results:      make([]feed.ProcessingResult, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		report.Results = append(report.Results, feed.ProcessingResult{
			MessageID:   r.MessageID,
			Code:        r.Code,
			Description: r.Description,
		})
	}
	return report, nil
}

// doRequest performs one HTTP call with retries on transport errors and
// 5xx responses. A 202 response yields a nil body, signalling a result
// that is not ready yet.
func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte, contentType string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		body, retryable, err := c.attempt(ctx, method, path, payload, contentType)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, contentType string) (body []byte, retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, reader)
	if err != nil {
		return nil, false, fmt.Errorf("marketplace: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("marketplace: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusAccepted:
		return nil, false, nil
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	case resp.StatusCode >= 400:
		var apiErr apiErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return nil, false, fmt.Errorf("%w: HTTP %d: %s - %s", ErrRequestFailed, resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, false, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	return raw, false, nil
}

// Ensure Client implements MarketplaceClient
var _ feed.MarketplaceClient = (*Client)(nil)
