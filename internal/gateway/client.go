package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/config"
)

type HTTPClient struct {
	client         *http.Client
	logger         *zap.Logger
	circuitBreaker *CircuitBreaker
}

// NewHTTPClient builds the gateway client with its circuit breaker.
func NewHTTPClient(cfg *config.GatewayConfig, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger:         logger,
		circuitBreaker: NewCircuitBreaker(&cfg.CircuitBreaker, logger),
	}
}

// Breaker exposes the circuit breaker for health reporting.
func (c *HTTPClient) Breaker() *CircuitBreaker {
	return c.circuitBreaker
}

func (c *HTTPClient) SendText(ctx context.Context, conn Conn, number, text string) (*SendResult, error) {
	body := map[string]string{
		"number": number,
		"text":   text,
	}

	raw, err := c.post(ctx, conn, "/message/sendText/"+url.PathEscape(conn.Instance), body)
	if err != nil {
		return nil, err
	}

	return &SendResult{MessageID: extractMessageID(raw), Raw: string(raw)}, nil
}

func (c *HTTPClient) SendMedia(ctx context.Context, conn Conn, msg MediaMessage) (*SendResult, error) {
	body := map[string]string{
		"number":    msg.Number,
		"mediatype": msg.MediaType,
		"mimetype":  msg.MimeType,
		"caption":   msg.Caption,
		"media":     msg.Data,
		"fileName":  msg.FileName,
	}

	raw, err := c.post(ctx, conn, "/message/sendMedia/"+url.PathEscape(conn.Instance), body)
	if err != nil {
		return nil, err
	}

	return &SendResult{MessageID: extractMessageID(raw), Raw: string(raw)}, nil
}

func (c *HTTPClient) FetchGroups(ctx context.Context, conn Conn) ([]Group, error) {
	path := "/group/fetchAllGroups/" + url.PathEscape(conn.Instance) + "?getParticipants=false"

	raw, err := c.get(ctx, conn, path)
	if err != nil {
		return nil, err
	}

	var groups []Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups response: %w", err)
	}

	return groups, nil
}

func (c *HTTPClient) SetWebhook(ctx context.Context, conn Conn, webhookURL string) error {
	body := map[string]interface{}{
		"webhook": map[string]interface{}{
			"enabled": true,
			"url":     webhookURL,
			"events":  []string{"MESSAGES_UPSERT"},
		},
	}

	_, err := c.post(ctx, conn, "/webhook/set/"+url.PathEscape(conn.Instance), body)
	return err
}

func (c *HTTPClient) ConnectionState(ctx context.Context, conn Conn) (string, error) {
	raw, err := c.get(ctx, conn, "/instance/connectionState/"+url.PathEscape(conn.Instance))
	if err != nil {
		return "", err
	}

	var resp struct {
		Instance struct {
			State string `json:"state"`
		} `json:"instance"`
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode connection state: %w", err)
	}

	if resp.Instance.State != "" {
		return resp.Instance.State, nil
	}
	return resp.State, nil
}

func (c *HTTPClient) post(ctx context.Context, conn Conn, path string, body interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, conn, http.MethodPost, path, jsonData)
}

func (c *HTTPClient) get(ctx context.Context, conn Conn, path string) ([]byte, error) {
	return c.do(ctx, conn, http.MethodGet, path, nil)
}

func (c *HTTPClient) do(ctx context.Context, conn Conn, method, path string, body []byte) ([]byte, error) {
	var raw []byte

	err := c.circuitBreaker.Execute(ctx, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewBuffer(body)
		}

		endpoint := strings.TrimRight(conn.BaseURL, "/") + path
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apikey", conn.APIKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.logger.Warn("Failed to close response body", zap.Error(err))
			}
		}()

		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, truncateBody(raw))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// extractMessageID pulls the gateway message id out of a send response.
// Responses differ across gateway versions, so both the nested key.id and
// a top-level messageId are tried; an empty id is not an error.
func extractMessageID(raw []byte) string {
	var resp struct {
		Key struct {
			ID string `json:"id"`
		} `json:"key"`
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ""
	}

	if resp.Key.ID != "" {
		return resp.Key.ID
	}
	return resp.MessageID
}

func truncateBody(raw []byte) string {
	const max = 200
	s := string(raw)
	if len(s) > max {
		return s[:max]
	}
	return s
}
