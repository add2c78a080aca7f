// Package gateway implements the HTTP client for the WhatsApp gateway API.
package gateway

import "context"

// Conn carries the connection details for one gateway instance. They come
// from runtime settings, so every call receives them explicitly instead of
// baking them into the client.
type Conn struct {
	BaseURL  string
	Instance string
	APIKey   string
}

// SendResult is the outcome of a successful send.
type SendResult struct {
	// MessageID is the gateway-assigned id of the message, best-effort:
	// empty when the gateway response carried none.
	MessageID string
	// Raw is the verbatim response body, kept for auditing.
	Raw string
}

// MediaMessage is a media or document send request.
type MediaMessage struct {
	Number    string
	MediaType string
	MimeType  string
	Caption   string
	FileName  string
	// Data is the payload encoded as base64.
	Data string
}

// Group is a group chat known to the gateway instance.
type Group struct {
	JID     string `json:"id"`
	Subject string `json:"subject"`
	Size    int    `json:"size"`
}

// Client talks to the gateway API.
type Client interface {
	SendText(ctx context.Context, conn Conn, number, text string) (*SendResult, error)
	SendMedia(ctx context.Context, conn Conn, msg MediaMessage) (*SendResult, error)
	FetchGroups(ctx context.Context, conn Conn) ([]Group, error)
	SetWebhook(ctx context.Context, conn Conn, webhookURL string) error
	ConnectionState(ctx context.Context, conn Conn) (string, error)
}
