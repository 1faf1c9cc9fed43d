package marketplace

import "time"

// documentListResponse is the JSON body of GET /documents
type documentListResponse struct {
	Documents []documentListEntry `json:"documents"`
}

// documentListEntry is one document awaiting pickup
type documentListEntry struct {
	DocumentID  string    `json:"documentId"`
	Type        string    `json:"type"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// feedSubmissionResponse is the JSON body of POST /feeds
type feedSubmissionResponse struct {
	SubmissionID string `json:"submissionId"`
}

// submissionResultResponse is the JSON body of GET /feeds/{id}/result
type submissionResultResponse struct {
	SubmissionID string                 `json:"submissionId"`
	Processed    int                    `json:"processed"`
	Successful   int                    `json:"successful"`
	WithErrors   int                    `json:"withErrors"`
	Results      []submissionResultLine `json:"results"`
}

// submissionResultLine is one per-message verdict in a processing report
type submissionResultLine struct {
	MessageID   int    `json:"messageId"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// apiErrorResponse is the JSON error body the marketplace returns on 4xx/5xx
type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
