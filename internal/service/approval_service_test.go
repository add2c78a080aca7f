package service_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/document"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/repository"
	"github.com/entretech/wanotify/internal/repository/mocks"
	"github.com/entretech/wanotify/internal/service"
	svcmocks "github.com/entretech/wanotify/internal/service/mocks"
)

type approvalFixture struct {
	svc       service.ApprovalService
	settings  *svcmocks.MockSettingsService
	delivery  *svcmocks.MockDeliveryService
	approvals *mocks.MockApprovalRepository
	templates *mocks.MockTemplateRepository
	docs      *document.MemoryStore
}

func newApprovalFixture(t *testing.T, ctrl *gomock.Controller) *approvalFixture {
	t.Helper()

	mockRepo := mocks.NewMockRepository(ctrl)
	mockApprovals := mocks.NewMockApprovalRepository(ctrl)
	mockTemplates := mocks.NewMockTemplateRepository(ctrl)
	mockRepo.EXPECT().Approval().Return(mockApprovals).AnyTimes()
	mockRepo.EXPECT().Template().Return(mockTemplates).AnyTimes()

	mockSettings := svcmocks.NewMockSettingsService(ctrl)
	mockDelivery := svcmocks.NewMockDeliveryService(ctrl)

	docs := document.NewMemoryStore()
	executor := service.NewActionExecutor(docs, zap.NewNop())

	svc := service.NewApprovalService(
		mockRepo, mockSettings, mockDelivery, docs, executor, zap.NewNop())

	return &approvalFixture{
		svc:       svc,
		settings:  mockSettings,
		delivery:  mockDelivery,
		approvals: mockApprovals,
		templates: mockTemplates,
		docs:      docs,
	}
}

func approvalTemplate() *models.ApprovalTemplate {
	return &models.ApprovalTemplate{
		Name:            "expense-approval",
		Enabled:         true,
		DocType:         "Expense Claim",
		Event:           models.EventOnSubmit,
		RecipientSource: models.RecipientFieldValue,
		PhoneField:      sql.NullString{String: "approver_phone", Valid: true},
		MessageTemplate: "Expense {{ .doc.name }} for {{ .doc.total }} needs your approval.",
		Options: models.OptionList{
			{Number: 1, Label: "Approve", ActionType: models.ActionWorkflowTransition, ActionTarget: "Approve"},
			{Number: 2, Label: "Reject", ActionType: models.ActionWorkflowTransition, ActionTarget: "Reject"},
		},
		ExpiryHours:       24,
		SendConfirmation:  true,
		SendInvalidHelp:   true,
		FirstResponseWins: true,
	}
}

func expenseDoc() *document.Document {
	return &document.Document{
		Type:          "Expense Claim",
		ID:            "EXP-0042",
		WorkflowState: "Pending Approval",
		Fields: map[string]interface{}{
			"approver_phone": "841234567",
			"total":          "1500.00",
		},
	}
}

func pendingRequest() *models.ApprovalRequest {
	return &models.ApprovalRequest{
		ID:             11,
		TemplateName:   "expense-approval",
		RefDocType:     "Expense Claim",
		RefDocID:       "EXP-0042",
		RecipientPhone: "841234567",
		FormattedPhone: "258841234567",
		Status:         models.ApprovalStatusPending,
		SentAt:         time.Now().Add(-time.Hour),
		ExpiresAt:      time.Now().Add(23 * time.Hour),
	}
}

func TestApprovalService_HandleEvent_SendsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)
	f.docs.Put(expenseDoc())

	tpl := approvalTemplate()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.templates.EXPECT().ListForEvent("Expense Claim", models.EventOnSubmit).
		Return([]*models.ApprovalTemplate{tpl}, nil)
	f.approvals.EXPECT().CancelPendingForDocument("Expense Claim", "EXP-0042", "superseded").
		Return(int64(0), nil)

	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req service.EnqueueRequest) (*models.MessageLog, error) {
			assert.Equal(t, "841234567", req.Recipient.Address)
			assert.Contains(t, req.Message, "Expense EXP-0042 for 1500.00")
			assert.Contains(t, req.Message, "1. Approve")
			assert.Contains(t, req.Message, "2. Reject")
			return &models.MessageLog{ID: 77}, nil
		})
	f.approvals.EXPECT().Create(gomock.Any()).DoAndReturn(func(req *models.ApprovalRequest) error {
		assert.Equal(t, "expense-approval", req.TemplateName)
		assert.Equal(t, "258841234567", req.FormattedPhone)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), req.ExpiresAt, time.Minute)
		req.ID = 11
		return nil
	})
	f.approvals.EXPECT().LinkMessageLog(int64(11), int64(77)).Return(nil)

	err := f.svc.HandleEvent(context.Background(), models.DocumentEvent{
		DocType: "Expense Claim",
		DocID:   "EXP-0042",
		Event:   models.EventOnSubmit,
	})
	require.NoError(t, err)
}

func TestApprovalService_HandleEvent_SupersedesExistingPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)
	f.docs.Put(expenseDoc())

	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.templates.EXPECT().ListForEvent("Expense Claim", models.EventOnSubmit).
		Return([]*models.ApprovalTemplate{approvalTemplate()}, nil)

	// The open request from the previous send is cancelled and the new
	// request still goes out.
	f.approvals.EXPECT().CancelPendingForDocument("Expense Claim", "EXP-0042", "superseded").
		Return(int64(1), nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(&models.MessageLog{ID: 91}, nil)
	f.approvals.EXPECT().Create(gomock.Any()).DoAndReturn(func(req *models.ApprovalRequest) error {
		req.ID = 12
		return nil
	})
	f.approvals.EXPECT().LinkMessageLog(int64(12), int64(91)).Return(nil)

	err := f.svc.HandleEvent(context.Background(), models.DocumentEvent{
		DocType: "Expense Claim",
		DocID:   "EXP-0042",
		Event:   models.EventOnSubmit,
	})
	require.NoError(t, err)
}

func TestApprovalService_SendManual_RejectsDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("notifications disabled", func(t *testing.T) {
		f := newApprovalFixture(t, ctrl)
		off := testSettings()
		off.Enabled = false
		f.settings.EXPECT().Get(gomock.Any()).Return(off, nil)

		err := f.svc.SendManual(context.Background(), "expense-approval", "Expense Claim", "EXP-0042", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})

	t.Run("template disabled", func(t *testing.T) {
		f := newApprovalFixture(t, ctrl)
		f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
		tpl := approvalTemplate()
		tpl.Enabled = false
		f.templates.EXPECT().GetByName("expense-approval").Return(tpl, nil)

		err := f.svc.SendManual(context.Background(), "expense-approval", "Expense Claim", "EXP-0042", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled")
	})
}

func TestApprovalService_ProcessResponse_ApprovesAndTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)
	doc := expenseDoc()
	f.docs.Put(doc)
	f.docs.RegisterTransition("Expense Claim", document.Transition{
		Name: "Approve", From: "Pending Approval", To: "Approved",
	})

	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(approvalTemplate(), nil)
	f.approvals.EXPECT().RecordResponse(
		int64(11), models.ApprovalStatusApproved, 1, "1", "258841234567", gomock.Any()).
		Return(nil)
	f.approvals.EXPECT().MarkProcessed(int64(11), "workflow_transition:Approve").Return(nil)
	f.approvals.EXPECT().CancelSiblings("Expense Claim", "EXP-0042", int64(11)).Return(int64(1), nil)

	// Confirmation reply.
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, er service.EnqueueRequest) (*models.MessageLog, error) {
			assert.Equal(t, "258841234567", er.Recipient.Address)
			assert.Contains(t, er.Message, "recorded")
			return &models.MessageLog{ID: 78}, nil
		})

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From:      "258841234567",
		Text:      "1",
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Approved", doc.WorkflowState)
}

func TestApprovalService_ProcessResponse_SuffixMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)
	doc := expenseDoc()
	f.docs.Put(doc)
	f.docs.RegisterTransition("Expense Claim", document.Transition{
		Name: "Approve", From: "Pending Approval", To: "Approved",
	})

	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	// The sender arrives with an unexpected prefix; exact tiers miss, the
	// nine-digit suffix still matches.
	f.approvals.EXPECT().FindOpenByFormattedPhone(gomock.Any()).Return(nil, nil)
	f.approvals.EXPECT().FindOpenByRawPhone("00258841234567").Return(nil, nil)
	f.approvals.EXPECT().FindOpenBySuffix("841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(approvalTemplate(), nil)
	f.approvals.EXPECT().RecordResponse(
		int64(11), models.ApprovalStatusApproved, 1, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)
	f.approvals.EXPECT().MarkProcessed(int64(11), gomock.Any()).Return(nil)
	f.approvals.EXPECT().CancelSiblings(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(&models.MessageLog{}, nil)

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "00258841234567",
		Text: "1. Approve",
	})
	require.NoError(t, err)
}

func TestApprovalService_ProcessResponse_RejectLabelRecordsRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)
	f.docs.Put(expenseDoc())

	// The option label decides the status: "Reject Invoice" carries a
	// rejection word, so picking it records a rejection.
	tpl := approvalTemplate()
	tpl.Options = models.OptionList{
		{Number: 1, Label: "Pay Invoice"},
		{Number: 2, Label: "Reject Invoice"},
	}

	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(tpl, nil)
	f.approvals.EXPECT().RecordResponse(
		int64(11), models.ApprovalStatusRejected, 2, "2", "258841234567", gomock.Any()).
		Return(nil)
	f.approvals.EXPECT().MarkProcessed(int64(11), "none").Return(nil)
	f.approvals.EXPECT().CancelSiblings(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(&models.MessageLog{}, nil)

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258841234567",
		Text: "2",
	})
	require.NoError(t, err)
}

func TestApprovalService_ProcessResponse_BareKeywordGetsHelp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)

	// A reply without an option number is unparseable, even when it reads
	// like a refusal. The sender is asked to answer with a number.
	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(approvalTemplate(), nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, er service.EnqueueRequest) (*models.MessageLog, error) {
			assert.Contains(t, er.Message, "1. Approve")
			assert.Contains(t, er.Message, "2. Reject")
			return &models.MessageLog{}, nil
		})

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258841234567",
		Text: "no",
	})
	require.NoError(t, err)
}

func TestApprovalService_ProcessResponse_ExpiredRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)

	// The request is still Pending in the database but past its deadline.
	// The reply flips it to Expired and the sender is told it lapsed.
	req := pendingRequest()
	req.SentAt = time.Now().Add(-48 * time.Hour)
	req.ExpiresAt = time.Now().Add(-24 * time.Hour)

	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.approvals.EXPECT().ExpireByID(int64(11)).Return(nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, er service.EnqueueRequest) (*models.MessageLog, error) {
			assert.Contains(t, er.Message, "expired")
			return &models.MessageLog{}, nil
		})

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258841234567",
		Text: "1",
	})
	assert.Error(t, err)
}

func TestApprovalService_ProcessResponse_InvalidReplyKeepsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)

	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(approvalTemplate(), nil)

	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, er service.EnqueueRequest) (*models.MessageLog, error) {
			assert.True(t, strings.Contains(er.Message, "1. Approve"))
			return &models.MessageLog{}, nil
		})

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258841234567",
		Text: "what is this about?",
	})
	require.NoError(t, err)
}

func TestApprovalService_ProcessResponse_LostRaceGetsCourtesyReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)

	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(approvalTemplate(), nil)
	// Another reply settled the request between the lookup and the update.
	f.approvals.EXPECT().RecordResponse(
		int64(11), models.ApprovalStatusApproved, 1, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(repository.ErrNotFound)

	resolved := pendingRequest()
	resolved.Status = models.ApprovalStatusApproved
	f.approvals.EXPECT().FindRecentlyResolved("258841234567", gomock.Any()).Return(resolved, nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, er service.EnqueueRequest) (*models.MessageLog, error) {
			assert.Contains(t, er.Message, "already been processed")
			return &models.MessageLog{}, nil
		})

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258841234567",
		Text: "1",
	})
	require.NoError(t, err)
}

func TestApprovalService_ProcessResponse_UnknownSenderIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)

	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone(gomock.Any()).Return(nil, nil)
	f.approvals.EXPECT().FindOpenByRawPhone(gomock.Any()).Return(nil, nil)
	f.approvals.EXPECT().FindOpenBySuffix(gomock.Any()).Return(nil, nil)
	f.approvals.EXPECT().FindRecentlyResolved(gomock.Any(), gomock.Any()).
		Return(nil, repository.ErrNotFound)

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258849999999",
		Text: "hello",
	})
	require.NoError(t, err)
}

func TestApprovalService_ProcessResponse_ActionFailureMarksError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)
	doc := expenseDoc()
	doc.WorkflowState = "Draft" // Approve transition not allowed from Draft
	f.docs.Put(doc)
	f.docs.RegisterTransition("Expense Claim", document.Transition{
		Name: "Approve", From: "Pending Approval", To: "Approved",
	})

	req := pendingRequest()
	f.settings.EXPECT().Get(gomock.Any()).Return(testSettings(), nil)
	f.approvals.EXPECT().FindOpenByFormattedPhone("258841234567").
		Return([]*models.ApprovalRequest{req}, nil)
	f.templates.EXPECT().GetByName("expense-approval").Return(approvalTemplate(), nil)
	f.approvals.EXPECT().RecordResponse(
		int64(11), models.ApprovalStatusApproved, 1, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)
	f.approvals.EXPECT().MarkError(int64(11), gomock.Any()).Return(nil)
	f.delivery.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, er service.EnqueueRequest) (*models.MessageLog, error) {
			assert.Contains(t, er.Message, "could not be completed")
			return &models.MessageLog{}, nil
		})

	err := f.svc.ProcessResponse(context.Background(), service.InboundMessage{
		From: "258841234567",
		Text: "1",
	})
	assert.Error(t, err)
}

func TestApprovalService_ExpireOld(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newApprovalFixture(t, ctrl)

	f.approvals.EXPECT().ExpirePending(gomock.Any()).Return(int64(3), nil)
	err := f.svc.ExpireOld(context.Background())
	require.NoError(t, err)
}

func TestActionExecutor_FieldUpdate(t *testing.T) {
	docs := document.NewMemoryStore()
	doc := expenseDoc()
	docs.Put(doc)

	executor := service.NewActionExecutor(docs, zap.NewNop())
	desc, err := executor.Execute(context.Background(), models.ApprovalOption{
		Number: 1, Label: "Hold", ActionType: models.ActionFieldUpdate,
		ActionTarget: "status", FieldValue: "On Hold",
	}, pendingRequest())
	require.NoError(t, err)
	assert.Equal(t, "field_update:status=On Hold", desc)
	assert.Equal(t, "On Hold", doc.Fields["status"])
}

func TestActionExecutor_NamedHandler(t *testing.T) {
	docs := document.NewMemoryStore()
	docs.Put(expenseDoc())

	executor := service.NewActionExecutor(docs, zap.NewNop())

	called := false
	require.NoError(t, executor.RegisterHandler("notify-finance", func(_ context.Context, doc *document.Document, _ *models.ApprovalRequest) error {
		called = true
		assert.Equal(t, "EXP-0042", doc.ID)
		return nil
	}))
	// Duplicate registration is rejected.
	assert.Error(t, executor.RegisterHandler("notify-finance", func(context.Context, *document.Document, *models.ApprovalRequest) error {
		return nil
	}))

	desc, err := executor.Execute(context.Background(), models.ApprovalOption{
		Number: 1, Label: "Escalate", ActionType: models.ActionNamedHandler,
		ActionTarget: "notify-finance",
	}, pendingRequest())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "named_handler:notify-finance", desc)
}
