package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/service"
	svcmocks "github.com/entretech/wanotify/internal/service/mocks"
)

func TestWebhookService_HandleInbound_TextShapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantText string
	}{
		{
			name: "plain conversation",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC1"},
				"messageTimestamp":1756600000,
				"message":{"conversation":"1"}}}`,
			wantText: "1",
		},
		{
			name: "extended text",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC2"},
				"message":{"extendedTextMessage":{"text":"2. Reject"}}}}`,
			wantText: "2. Reject",
		},
		{
			// The selected ID is what option parsing expects; the display
			// text is free-form and must not leak through.
			name: "buttons response uses selected id",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC3"},
				"message":{"buttonsResponseMessage":{"selectedButtonId":"1","selectedDisplayText":"Approve"}}}}`,
			wantText: "1",
		},
		{
			name: "list response uses selected row id",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC4"},
				"message":{"listResponseMessage":{"title":"Approve","singleSelectReply":{"selectedRowId":"1"}}}}}`,
			wantText: "1",
		},
		{
			name: "template button reply uses selected id",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC5"},
				"message":{"templateButtonReplyMessage":{"selectedId":"2","selectedDisplayText":"Reject"}}}}`,
			wantText: "2",
		},
		{
			name: "array-wrapped data",
			payload: `{"event":"messages.upsert","data":[{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC6"},
				"message":{"conversation":"yes"}}]}`,
			wantText: "yes",
		},
		{
			name: "underscored event name",
			payload: `{"event":"MESSAGES_UPSERT","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"ABC7"},
				"message":{"conversation":"ok"}}}`,
			wantText: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockApprovals := svcmocks.NewMockApprovalService(ctrl)
			mockApprovals.EXPECT().ProcessResponse(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, msg service.InboundMessage) error {
					assert.Equal(t, "258841234567", msg.From)
					assert.Equal(t, tt.wantText, msg.Text)
					return nil
				})

			svc := service.NewWebhookService(mockApprovals, zap.NewNop())
			err := svc.HandleInbound(context.Background(), []byte(tt.payload))
			require.NoError(t, err)
		})
	}
}

func TestWebhookService_HandleInbound_IgnoredPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "wrong event",
			payload: `{"event":"connection.update","data":{"state":"open"}}`,
		},
		{
			name: "own outgoing message",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":true,"id":"X1"},
				"message":{"conversation":"echo"}}}`,
		},
		{
			name: "group sender",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"12036304@g.us","fromMe":false,"id":"X2"},
				"message":{"conversation":"group chatter"}}}`,
		},
		{
			name: "no text content",
			payload: `{"event":"messages.upsert","data":{
				"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"X3"},
				"message":{}}}`,
		},
		{
			name:    "malformed json",
			payload: `{"event":"messages.upsert","data":`,
		},
		{
			name:    "empty array data",
			payload: `{"event":"messages.upsert","data":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No ProcessResponse expectation: irrelevant payloads never
			// reach the approval flow, and never error either.
			mockApprovals := svcmocks.NewMockApprovalService(ctrl)
			svc := service.NewWebhookService(mockApprovals, zap.NewNop())

			err := svc.HandleInbound(context.Background(), []byte(tt.payload))
			require.NoError(t, err)
		})
	}
}

func TestWebhookService_HandleInbound_ProcessingErrorStaysInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApprovals := svcmocks.NewMockApprovalService(ctrl)
	mockApprovals.EXPECT().ProcessResponse(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	svc := service.NewWebhookService(mockApprovals, zap.NewNop())
	err := svc.HandleInbound(context.Background(), []byte(`{"event":"messages.upsert","data":{
		"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"Y1"},
		"message":{"conversation":"1"}}}`))
	require.NoError(t, err)
}

func TestWebhookService_Timestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockApprovals := svcmocks.NewMockApprovalService(ctrl)
	mockApprovals.EXPECT().ProcessResponse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg service.InboundMessage) error {
			assert.Equal(t, time.Unix(1756600000, 0), msg.Timestamp)
			return nil
		})

	svc := service.NewWebhookService(mockApprovals, zap.NewNop())
	err := svc.HandleInbound(context.Background(), []byte(`{"event":"messages.upsert","data":{
		"key":{"remoteJid":"258841234567@s.whatsapp.net","fromMe":false,"id":"T1"},
		"messageTimestamp":1756600000,
		"message":{"conversation":"1"}}}`))
	require.NoError(t, err)
}
