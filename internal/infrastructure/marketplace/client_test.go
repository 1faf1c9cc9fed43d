package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellercentric/backend/internal/domain/feed"
)

func testConfig(endpoint string) *Config {
	return &Config{
		Endpoint:       endpoint,
		SellerID:       "SELLER123",
		AuthToken:      "test-token",
		RequestTimeout: 5 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "valid config",
			config:  testConfig("https://feeds.example.com"),
			wantErr: nil,
		},
		{
			name:    "missing endpoint",
			config:  &Config{SellerID: "S", AuthToken: "T"},
			wantErr: ErrConfigMissingEndpoint,
		},
		{
			name:    "missing seller id",
			config:  &Config{Endpoint: "https://feeds.example.com", AuthToken: "T"},
			wantErr: ErrConfigMissingSellerID,
		},
		{
			name:    "missing auth token",
			config:  &Config{Endpoint: "https://feeds.example.com", SellerID: "S"},
			wantErr: ErrConfigMissingAuthToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.config.RequestTimeout > 0)
			}
		})
	}
}

func TestClient_ListPendingDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		assert.Equal(t, "ORDER_REPORT", r.URL.Query().Get("type"))
		assert.Equal(t, "SELLER123", r.URL.Query().Get("sellerId"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documents":[
			{"documentId":"DOC-1","type":"ORDER_REPORT","generatedAt":"2026-08-14T09:30:00Z"},
			{"documentId":"DOC-2","type":"ORDER_REPORT","generatedAt":"2026-08-14T10:30:00Z"}
		]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	pending, err := client.ListPendingDocuments(context.Background(), feed.DocumentTypeOrderReport)

	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "DOC-1", pending[0].ExternalDocumentID)
	assert.Equal(t, feed.DocumentTypeOrderReport, pending[0].Type)
	assert.Equal(t, 2026, pending[0].GeneratedAt.Year())
}

func TestClient_GetDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/DOC-1", r.URL.Path)
		_, _ = w.Write([]byte("<Envelope/>"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	payload, err := client.GetDocument(context.Background(), "DOC-1")

	require.NoError(t, err)
	assert.Equal(t, "<Envelope/>", string(payload))
}

func TestClient_SubmitFeed(t *testing.T) {
	t.Run("returns the submission id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/feeds", r.URL.Path)
			assert.Equal(t, "ORDER_ACKNOWLEDGEMENT", r.URL.Query().Get("type"))
			assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"submissionId":"SUB-42"}`))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)

		submissionID, err := client.SubmitFeed(context.Background(), "ORDER_ACKNOWLEDGEMENT", []byte("<Envelope/>"))

		require.NoError(t, err)
		assert.Equal(t, "SUB-42", submissionID)
	})

	t.Run("rejects a response without a submission id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.SubmitFeed(context.Background(), "PRODUCT", []byte("<Envelope/>"))

		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestClient_GetFeedSubmissionResult(t *testing.T) {
	t.Run("returns the parsed report", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/feeds/SUB-42/result", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"submissionId":"SUB-42","processed":3,"successful":2,"withErrors":1,
				"results":[{"messageId":2,"code":"InvalidSKU","description":"Unknown SKU"}]
			}`))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)

		report, err := client.GetFeedSubmissionResult(context.Background(), "SUB-42")

		require.NoError(t, err)
		assert.Equal(t, "SUB-42", report.SubmissionID)
		assert.Equal(t, 3, report.Processed)
		assert.Equal(t, 1, report.WithErrors)
		require.Len(t, report.Results, 1)
		assert.Equal(t, 2, report.Results[0].MessageID)
		assert.True(t, report.Results[0].IsError())
	})

	t.Run("maps HTTP 202 to ErrResultNotReady", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.GetFeedSubmissionResult(context.Background(), "SUB-42")

		assert.ErrorIs(t, err, feed.ErrResultNotReady)
	})
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("<Envelope/>"))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	client, err := NewClient(cfg)
	require.NoError(t, err)

	payload, err := client.GetDocument(context.Background(), "DOC-1")

	require.NoError(t, err)
	assert.Equal(t, "<Envelope/>", string(payload))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"AccessDenied","message":"bad token"}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 3
	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.GetDocument(context.Background(), "DOC-1")

	require.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.Equal(t, int32(1), calls.Load())
}
