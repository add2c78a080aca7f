package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/phone"
)

// webhookEnvelope is the top-level gateway webhook payload. The data member
// is either one message object or a single-element array, depending on the
// gateway version.
type webhookEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type webhookMessage struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	PushName         string             `json:"pushName"`
	MessageTimestamp int64              `json:"messageTimestamp"`
	Message          *webhookMessageBody `json:"message"`
}

type webhookMessageBody struct {
	Conversation        string `json:"conversation"`
	ExtendedTextMessage *struct {
		Text string `json:"text"`
	} `json:"extendedTextMessage"`
	ButtonsResponseMessage *struct {
		SelectedButtonID string `json:"selectedButtonId"`
	} `json:"buttonsResponseMessage"`
	ListResponseMessage *struct {
		SingleSelect *struct {
			SelectedRowID string `json:"selectedRowId"`
		} `json:"singleSelectReply"`
	} `json:"listResponseMessage"`
	TemplateButtonReplyMessage *struct {
		SelectedID string `json:"selectedId"`
	} `json:"templateButtonReplyMessage"`
}

type webhookService struct {
	approvals ApprovalService
	logger    *zap.Logger
}

func NewWebhookService(approvals ApprovalService, logger *zap.Logger) WebhookService {
	return &webhookService{
		approvals: approvals,
		logger:    logger,
	}
}

// HandleInbound parses a gateway webhook payload and routes any usable text
// reply into approval processing. Payloads that are not inbound text from an
// individual sender are silently ignored so the gateway always gets a 200.
func (s *webhookService) HandleInbound(ctx context.Context, payload []byte) error {
	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn("Unparseable webhook payload", zap.Error(err))
		return nil
	}

	if !strings.EqualFold(strings.ReplaceAll(envelope.Event, "_", "."), "messages.upsert") {
		return nil
	}

	msg, ok := decodeWebhookMessage(envelope.Data)
	if !ok {
		return nil
	}

	if msg.Key.FromMe {
		return nil
	}
	if phone.IsGroupAddress(msg.Key.RemoteJID) {
		s.logger.Debug("Ignoring group message", zap.String("jid", msg.Key.RemoteJID))
		return nil
	}

	text := extractText(msg.Message)
	if text == "" {
		return nil
	}

	inbound := InboundMessage{
		From:      stripJIDSuffix(msg.Key.RemoteJID),
		Text:      text,
		Timestamp: timestampOf(msg.MessageTimestamp),
	}

	s.logger.Info("Inbound message received",
		zap.String("from", inbound.From),
		zap.String("id", msg.Key.ID))

	if err := s.approvals.ProcessResponse(ctx, inbound); err != nil {
		// Processing errors are logged but never surfaced to the gateway;
		// a non-200 would make it retry the same payload.
		s.logger.Error("Failed to process inbound response",
			zap.String("from", inbound.From),
			zap.Error(err))
	}
	return nil
}

// decodeWebhookMessage accepts both a bare message object and a
// single-element array wrapper.
func decodeWebhookMessage(raw json.RawMessage) (*webhookMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var list []webhookMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return nil, false
		}
		return &list[0], true
	}

	var msg webhookMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, false
	}
	return &msg, true
}

// extractText pulls the reply text out of the first populated message shape.
func extractText(body *webhookMessageBody) string {
	if body == nil {
		return ""
	}
	if body.Conversation != "" {
		return body.Conversation
	}
	if body.ExtendedTextMessage != nil && body.ExtendedTextMessage.Text != "" {
		return body.ExtendedTextMessage.Text
	}
	// Interactive replies carry the selected ID, which is what option
	// parsing expects. Display text is free-form and is not consulted.
	if b := body.ButtonsResponseMessage; b != nil {
		return b.SelectedButtonID
	}
	if l := body.ListResponseMessage; l != nil && l.SingleSelect != nil {
		return l.SingleSelect.SelectedRowID
	}
	if t := body.TemplateButtonReplyMessage; t != nil {
		return t.SelectedID
	}
	return ""
}

// stripJIDSuffix turns "258841234567@s.whatsapp.net" into "258841234567".
func stripJIDSuffix(jid string) string {
	if i := strings.IndexByte(jid, '@'); i >= 0 {
		return jid[:i]
	}
	return jid
}

func timestampOf(unix int64) time.Time {
	if unix <= 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
