package repository_test

import (
	"testing"
	"time"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/repository"
)

func seedTemplate(t *testing.T, repo repository.TemplateRepository, name string) *models.ApprovalTemplate {
	tpl := &models.ApprovalTemplate{
		Name:            name,
		Enabled:         true,
		DocType:         "Invoice",
		Event:           models.EventOnSubmit,
		RecipientSource: models.RecipientFixedNumbers,
		FixedRecipients: models.StringList{"258841234567"},
		MessageTemplate: "Approve invoice {{.doc.name}}?",
		Options: models.OptionList{
			{Number: 1, Label: "Approve", ActionType: models.ActionWorkflowTransition, ActionTarget: "Approve"},
			{Number: 2, Label: "Reject", ActionType: models.ActionWorkflowTransition, ActionTarget: "Reject"},
		},
		ExpiryHours:       24,
		SendConfirmation:  true,
		SendInvalidHelp:   true,
		FirstResponseWins: true,
	}
	require.NoError(t, repo.Save(tpl))
	return tpl
}

func seedRequest(t *testing.T, repo repository.ApprovalRepository, tplName, phone string) *models.ApprovalRequest {
	now := time.Now()
	req := &models.ApprovalRequest{
		TemplateName:   tplName,
		RefDocType:     "Invoice",
		RefDocID:       "INV-001",
		RecipientPhone: phone,
		FormattedPhone: phone,
		SentAt:         now,
		ExpiresAt:      now.Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(req))
	return req
}

func TestTemplateRepository_SaveAndLookup(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewTemplateRepository(db)
	tpl := seedTemplate(t, repo, "invoice-approval")

	got, err := repo.GetByName("invoice-approval")
	require.NoError(t, err)
	assert.Equal(t, tpl.MessageTemplate, got.MessageTemplate)
	require.Len(t, got.Options, 2)
	assert.Equal(t, "Approve", got.Options[0].Label)
	assert.Equal(t, models.ActionWorkflowTransition, got.Options[0].ActionType)

	tpls, err := repo.ListForEvent("Invoice", models.EventOnSubmit)
	require.NoError(t, err)
	assert.Len(t, tpls, 1)

	// Disabled templates drop out of event lookups.
	tpl.Enabled = false
	require.NoError(t, repo.Save(tpl))
	tpls, err = repo.ListForEvent("Invoice", models.EventOnSubmit)
	require.NoError(t, err)
	assert.Empty(t, tpls)

	_, err = repo.GetByName("missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApprovalRepository_ResponseLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	templates := repository.NewTemplateRepository(db)
	repo := repository.NewApprovalRepository(db)
	seedTemplate(t, templates, "invoice-approval")

	req := seedRequest(t, repo, "invoice-approval", "258841234567")

	open, err := repo.FindOpenByFormattedPhone("258841234567")
	require.NoError(t, err)
	require.Len(t, open, 1)

	// Suffix matching covers locally formatted sender JIDs.
	open, err = repo.FindOpenBySuffix("841234567")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, req.ID, open[0].ID)

	respondedAt := time.Now()
	err = repo.RecordResponse(req.ID, models.ApprovalStatusApproved, 1, "1", "258841234567", respondedAt)
	require.NoError(t, err)

	// Only the first response lands; the row is no longer Pending.
	err = repo.RecordResponse(req.ID, models.ApprovalStatusRejected, 2, "2", "258841234567", time.Now())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, got.Status)
	assert.Equal(t, int64(1), got.ResponseOption.Int64)
	assert.False(t, got.Processed)

	require.NoError(t, repo.MarkProcessed(req.ID, "workflow_transition:Approve"))
	got, err = repo.GetByID(req.ID)
	require.NoError(t, err)
	assert.True(t, got.Processed)
	assert.Equal(t, "workflow_transition:Approve", got.ActionExecuted.String)

	resolved, err := repo.FindRecentlyResolved("258841234567", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, req.ID, resolved.ID)
}

func TestApprovalRepository_CancelSiblings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	templates := repository.NewTemplateRepository(db)
	repo := repository.NewApprovalRepository(db)
	seedTemplate(t, templates, "invoice-approval")

	first := seedRequest(t, repo, "invoice-approval", "258841234567")
	second := seedRequest(t, repo, "invoice-approval", "258847654321")
	third := seedRequest(t, repo, "invoice-approval", "258849999999")

	cancelled, err := repo.CancelSiblings("Invoice", "INV-001", first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cancelled)

	for _, id := range []int64{second.ID, third.ID} {
		got, err := repo.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalStatusCancelled, got.Status)
	}

	got, err := repo.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusPending, got.Status)
}

func TestApprovalRepository_ExpirePending(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	templates := repository.NewTemplateRepository(db)
	repo := repository.NewApprovalRepository(db)
	seedTemplate(t, templates, "invoice-approval")

	expired := seedRequest(t, repo, "invoice-approval", "258841234567")
	_, err := db.Exec("UPDATE approval_requests SET expires_at = $2 WHERE id = $1",
		expired.ID, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	alive := seedRequest(t, repo, "invoice-approval", "258847654321")

	// Past-deadline rows still Pending keep matching until they are flipped,
	// so a late reply can be answered with an expiry notice.
	open, err := repo.FindOpenByFormattedPhone("258841234567")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, expired.ID, open[0].ID)

	count, err := repo.ExpirePending(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusExpired, got.Status)

	got, err = repo.GetByID(alive.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusPending, got.Status)

	// Once flipped, the row drops out of response matching.
	open, err = repo.FindOpenByFormattedPhone("258841234567")
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestApprovalRepository_ExpireByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	templates := repository.NewTemplateRepository(db)
	repo := repository.NewApprovalRepository(db)
	seedTemplate(t, templates, "invoice-approval")

	req := seedRequest(t, repo, "invoice-approval", "258841234567")
	require.NoError(t, repo.ExpireByID(req.ID))

	got, err := repo.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusExpired, got.Status)

	// Settled rows are left alone.
	settled := seedRequest(t, repo, "invoice-approval", "258847654321")
	require.NoError(t, repo.RecordResponse(
		settled.ID, models.ApprovalStatusApproved, 1, "1", "258847654321", time.Now()))
	require.NoError(t, repo.ExpireByID(settled.ID))

	got, err = repo.GetByID(settled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, got.Status)
}

func TestApprovalRepository_FindOpenMostRecentFirst(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	templates := repository.NewTemplateRepository(db)
	repo := repository.NewApprovalRepository(db)
	seedTemplate(t, templates, "invoice-approval")

	older := seedRequest(t, repo, "invoice-approval", "258841234567")
	_, err := db.Exec("UPDATE approval_requests SET sent_at = $2 WHERE id = $1",
		older.ID, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	newer := seedRequest(t, repo, "invoice-approval", "258841234567")

	open, err := repo.FindOpenByFormattedPhone("258841234567")
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, newer.ID, open[0].ID)
	assert.Equal(t, older.ID, open[1].ID)
}

func TestApprovalRepository_CancelPendingForDocument(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	templates := repository.NewTemplateRepository(db)
	repo := repository.NewApprovalRepository(db)
	seedTemplate(t, templates, "invoice-approval")

	first := seedRequest(t, repo, "invoice-approval", "258841234567")
	second := seedRequest(t, repo, "invoice-approval", "258847654321")

	// An already settled request is out of scope for the cancel.
	require.NoError(t, repo.RecordResponse(
		second.ID, models.ApprovalStatusApproved, 1, "1", "258847654321", time.Now()))

	cancelled, err := repo.CancelPendingForDocument("Invoice", "INV-001", "superseded")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	got, err := repo.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusCancelled, got.Status)
	assert.Equal(t, "superseded", got.ErrorMessage.String)

	got, err = repo.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, got.Status)
}

func TestSettingsRepository_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewSettingsRepository(db)

	// Empty table yields defaults.
	got, err := repo.Get()
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, "258", got.DefaultCountryCode)

	got.Enabled = true
	got.APIBaseURL = "https://gateway.example.com"
	got.APIKey = "secret"
	got.InstanceName = "main"
	got.MessagesPerMinute = 10
	require.NoError(t, repo.Save(got))

	reloaded, err := repo.Get()
	require.NoError(t, err)
	assert.True(t, reloaded.Enabled)
	assert.Equal(t, "https://gateway.example.com", reloaded.APIBaseURL)
	assert.Equal(t, 10, reloaded.MessagesPerMinute)
	assert.True(t, reloaded.Configured())
}
