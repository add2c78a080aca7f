package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/config"
)

func testGatewayConfig() *config.GatewayConfig {
	return &config.GatewayConfig{
		Timeout: 5,
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxRequests:      3,
			Interval:         60,
			Timeout:          60,
			FailureRatio:     0.6,
			ConsecutiveFails: 5,
		},
	}
}

func TestHTTPClient_SendText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message/sendText/main", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "258841234567", body["number"])
		assert.Equal(t, "hello there", body["text"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"key":{"id":"ABC123"},"status":"PENDING"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(), zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	result, err := client.SendText(context.Background(), conn, "258841234567", "hello there")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", result.MessageID)
	assert.Contains(t, result.Raw, "PENDING")
}

func TestHTTPClient_SendText_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"number not on whatsapp"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(), zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	_, err := client.SendText(context.Background(), conn, "258841234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestHTTPClient_SendMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message/sendMedia/main", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "document", body["mediatype"])
		assert.Equal(t, "application/pdf", body["mimetype"])
		assert.Equal(t, "invoice.pdf", body["fileName"])
		assert.NotEmpty(t, body["media"])

		_, _ = w.Write([]byte(`{"messageId":"MEDIA-42"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(), zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	result, err := client.SendMedia(context.Background(), conn, MediaMessage{
		Number:    "258841234567",
		MediaType: "document",
		MimeType:  "application/pdf",
		Caption:   "Invoice",
		FileName:  "invoice.pdf",
		Data:      "JVBERi0xLjQ=",
	})
	require.NoError(t, err)
	assert.Equal(t, "MEDIA-42", result.MessageID)
}

func TestHTTPClient_FetchGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/group/fetchAllGroups/main", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("getParticipants"))

		_, _ = w.Write([]byte(`[{"id":"123@g.us","subject":"Ops Team","size":12}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(), zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	groups, err := client.FetchGroups(context.Background(), conn)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "123@g.us", groups[0].JID)
	assert.Equal(t, "Ops Team", groups[0].Subject)
}

func TestHTTPClient_SetWebhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/set/main", r.URL.Path)

		var body struct {
			Webhook struct {
				Enabled bool     `json:"enabled"`
				URL     string   `json:"url"`
				Events  []string `json:"events"`
			} `json:"webhook"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Webhook.Enabled)
		assert.Equal(t, "https://example.com/api/webhook/receive", body.Webhook.URL)
		assert.Contains(t, body.Webhook.Events, "MESSAGES_UPSERT")

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(), zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	err := client.SetWebhook(context.Background(), conn, "https://example.com/api/webhook/receive")
	require.NoError(t, err)
}

func TestHTTPClient_ConnectionState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance/connectionState/main", r.URL.Path)
		_, _ = w.Write([]byte(`{"instance":{"instanceName":"main","state":"open"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(), zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	state, err := client.ConnectionState(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "open", state)
}

func TestExtractMessageID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"nested key id", `{"key":{"id":"K1"}}`, "K1"},
		{"top level messageId", `{"messageId":"M1"}`, "M1"},
		{"key id wins", `{"key":{"id":"K1"},"messageId":"M1"}`, "K1"},
		{"neither present", `{"status":"ok"}`, ""},
		{"not json", `oops`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMessageID([]byte(tt.raw)))
		})
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cfg := testGatewayConfig()
	cfg.CircuitBreaker.ConsecutiveFails = 2
	cfg.CircuitBreaker.FailureRatio = 0.5

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(cfg, zap.NewNop())
	conn := Conn{BaseURL: server.URL, Instance: "main", APIKey: "secret-key"}

	for i := 0; i < 3; i++ {
		_, _ = client.SendText(context.Background(), conn, "258841234567", "x")
	}

	assert.Equal(t, BreakerOpen, client.Breaker().GetState())

	_, err := client.SendText(context.Background(), conn, "258841234567", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
}
