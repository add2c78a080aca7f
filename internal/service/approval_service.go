package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/document"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/phone"
	"github.com/entretech/wanotify/internal/render"
	"github.com/entretech/wanotify/internal/repository"
)

// Labels containing any of these words record the response as a rejection.
var rejectKeywords = []string{"reject", "deny", "decline", "refuse", "no", "cancel"}

// isRejectLabel reports whether an option label reads as a rejection.
func isRejectLabel(label string) bool {
	lowered := strings.ToLower(label)
	for _, keyword := range rejectKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// A reply to an already-settled request still gets an acknowledgment within
// this window.
const resolvedCourtesyWindow = time.Hour

// suffixMatchLength is the number of trailing digits used for the loosest
// sender-matching tier.
const suffixMatchLength = 9

var (
	leadingDigits    = regexp.MustCompile(`^\s*(\d+)`)
	standaloneDigits = regexp.MustCompile(`\b(\d+)\b`)
)

type approvalService struct {
	repo     repository.Repository
	settings SettingsService
	delivery DeliveryService
	docs     document.Store
	executor *ActionExecutor
	logger   *zap.Logger
}

func NewApprovalService(
	repo repository.Repository,
	settings SettingsService,
	delivery DeliveryService,
	docs document.Store,
	executor *ActionExecutor,
	logger *zap.Logger,
) ApprovalService {
	return &approvalService{
		repo:     repo,
		settings: settings,
		delivery: delivery,
		docs:     docs,
		executor: executor,
		logger:   logger,
	}
}

// HandleEvent sends approval requests for every template matching the event.
func (s *approvalService) HandleEvent(ctx context.Context, event models.DocumentEvent) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return nil
	}

	doc, err := s.docs.Get(ctx, event.DocType, event.DocID)
	if err != nil {
		return fmt.Errorf("failed to load document %s/%s: %w", event.DocType, event.DocID, err)
	}

	templates, err := s.templatesFor(event, doc)
	if err != nil {
		return err
	}

	for _, tpl := range templates {
		if err := s.sendForTemplate(ctx, tpl, doc, "", settings); err != nil {
			s.logger.Error("Approval template failed",
				zap.String("template", tpl.Name),
				zap.String("doc", event.DocID),
				zap.Error(err))
		}
	}

	return nil
}

// templatesFor collects event-triggered templates, including workflow-state
// triggers when the document carries a state.
func (s *approvalService) templatesFor(event models.DocumentEvent, doc *document.Document) ([]*models.ApprovalTemplate, error) {
	var templates []*models.ApprovalTemplate

	if event.Event == models.EventWorkflowState {
		if doc.WorkflowState == "" {
			return nil, nil
		}
		byState, err := s.repo.Template().ListForWorkflowState(event.DocType, doc.WorkflowState)
		if err != nil {
			return nil, err
		}
		return byState, nil
	}

	byEvent, err := s.repo.Template().ListForEvent(event.DocType, event.Event)
	if err != nil {
		return nil, err
	}
	templates = append(templates, byEvent...)

	return templates, nil
}

// SendManual sends one approval request outside of event triggers.
func (s *approvalService) SendManual(ctx context.Context, templateName, refDocType, refDocID, phoneOverride string) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return errors.New("notifications are disabled in settings")
	}

	tpl, err := s.repo.Template().GetByName(templateName)
	if err != nil {
		return err
	}
	if !tpl.Enabled {
		return fmt.Errorf("template %q is disabled", templateName)
	}
	if tpl.DocType != refDocType {
		return fmt.Errorf("template %q is for %s documents", templateName, tpl.DocType)
	}

	doc, err := s.docs.Get(ctx, refDocType, refDocID)
	if err != nil {
		return fmt.Errorf("failed to load document %s/%s: %w", refDocType, refDocID, err)
	}

	return s.sendForTemplate(ctx, tpl, doc, phoneOverride, settings)
}

func (s *approvalService) sendForTemplate(ctx context.Context, tpl *models.ApprovalTemplate, doc *document.Document, phoneOverride string, settings *models.Settings) error {
	docCtx := buildDocContext(doc)

	if tpl.Condition.Valid && strings.TrimSpace(tpl.Condition.String) != "" {
		ok, err := render.EvalCondition(tpl.Condition.String, docCtx)
		if err != nil {
			return fmt.Errorf("condition error: %w", err)
		}
		if !ok {
			return nil
		}
	}

	if !tpl.AllowMultiplePending {
		cancelled, err := s.repo.Approval().CancelPendingForDocument(doc.Type, doc.ID, "superseded")
		if err != nil {
			return err
		}
		if cancelled > 0 {
			s.logger.Info("Superseded pending approval requests",
				zap.String("template", tpl.Name),
				zap.String("doc", doc.ID),
				zap.Int64("count", cancelled))
		}
	}

	phones, err := s.resolvePhones(ctx, tpl, doc, phoneOverride)
	if err != nil {
		return err
	}
	if len(phones) == 0 {
		return errors.New("no approval recipients resolved")
	}

	body, err := render.Render(tpl.MessageTemplate, docCtx)
	if err != nil {
		return fmt.Errorf("template error: %w", err)
	}
	message := body + "\n\n" + buildOptionsMenu(tpl)

	now := time.Now()
	expiryHours := tpl.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}
	expiresAt := now.Add(time.Duration(expiryHours) * time.Hour)

	for _, rawPhone := range phones {
		formatted := normalizeForMatch(rawPhone, settings)

		log, err := s.delivery.Enqueue(ctx, EnqueueRequest{
			Recipient:  models.Recipient{Kind: models.RecipientKindPhone, Address: rawPhone},
			Message:    message,
			Kind:       models.MessageKindText,
			RefDocType: doc.Type,
			RefDocID:   doc.ID,
			RuleName:   tpl.Name,
		})
		if err != nil {
			s.logger.Error("Failed to enqueue approval message",
				zap.String("template", tpl.Name),
				zap.String("to", rawPhone),
				zap.Error(err))
			continue
		}

		req := &models.ApprovalRequest{
			TemplateName:   tpl.Name,
			RefDocType:     doc.Type,
			RefDocID:       doc.ID,
			RecipientPhone: rawPhone,
			FormattedPhone: formatted,
			SentAt:         now,
			ExpiresAt:      expiresAt,
		}
		if err := s.repo.Approval().Create(req); err != nil {
			s.logger.Error("Failed to create approval request",
				zap.String("template", tpl.Name),
				zap.Error(err))
			continue
		}
		if err := s.repo.Approval().LinkMessageLog(req.ID, log.ID); err != nil {
			s.logger.Warn("Failed to link approval message", zap.Int64("id", req.ID), zap.Error(err))
		}

		s.logger.Info("Approval request sent",
			zap.Int64("id", req.ID),
			zap.String("template", tpl.Name),
			zap.String("doc", doc.ID),
			zap.String("to", formatted),
			zap.Time("expiresAt", expiresAt))
	}

	return nil
}

func (s *approvalService) resolvePhones(ctx context.Context, tpl *models.ApprovalTemplate, doc *document.Document, phoneOverride string) ([]string, error) {
	if phoneOverride != "" {
		return []string{phoneOverride}, nil
	}

	var phones []string
	seen := make(map[string]bool)

	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		phones = append(phones, p)
	}

	useField := tpl.RecipientSource == models.RecipientFieldValue || tpl.RecipientSource == models.RecipientBoth
	useFixed := tpl.RecipientSource == models.RecipientFixedNumbers || tpl.RecipientSource == models.RecipientBoth

	if useField && tpl.PhoneField.Valid && tpl.PhoneField.String != "" {
		value, err := s.docs.FieldValue(ctx, doc, tpl.PhoneField.String)
		if err != nil {
			return nil, fmt.Errorf("phone field %q: %w", tpl.PhoneField.String, err)
		}
		if str, ok := value.(string); ok {
			add(str)
		}
	}
	if useFixed {
		for _, number := range tpl.FixedRecipients {
			add(number)
		}
	}

	return phones, nil
}

// buildOptionsMenu renders the numbered reply menu.
func buildOptionsMenu(tpl *models.ApprovalTemplate) string {
	var b strings.Builder

	header := "Please reply with one of the following options:"
	if tpl.OptionsHeader.Valid && tpl.OptionsHeader.String != "" {
		header = tpl.OptionsHeader.String
	}
	b.WriteString(header)

	for _, opt := range tpl.Options {
		b.WriteString(fmt.Sprintf("\n%d. %s", opt.Number, opt.Label))
	}

	footer := "Reply with the number only."
	if tpl.OptionsFooter.Valid && tpl.OptionsFooter.String != "" {
		footer = tpl.OptionsFooter.String
	}
	b.WriteString("\n\n")
	b.WriteString(footer)

	return b.String()
}

// ProcessResponse matches an inbound reply to a pending request, records the
// choice and executes the bound action.
func (s *approvalService) ProcessResponse(ctx context.Context, msg InboundMessage) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	normalized := normalizeForMatch(msg.From, settings)

	req, err := s.matchPending(normalized, msg.From)
	if err != nil {
		return err
	}
	if req == nil {
		return s.acknowledgeResolved(ctx, normalized)
	}

	if !req.ExpiresAt.After(time.Now()) {
		if err := s.repo.Approval().ExpireByID(req.ID); err != nil {
			s.logger.Error("Failed to expire approval request", zap.Int64("id", req.ID), zap.Error(err))
		}
		s.reply(ctx, req, fmt.Sprintf(
			"This approval request for %s %s expired on %s and can no longer be actioned.",
			req.RefDocType, req.RefDocID, req.ExpiresAt.Format("2006-01-02 15:04")))
		return fmt.Errorf("approval request %d expired at %s", req.ID, req.ExpiresAt.Format(time.RFC3339))
	}

	tpl, err := s.repo.Template().GetByName(req.TemplateName)
	if err != nil {
		return fmt.Errorf("failed to load template %q: %w", req.TemplateName, err)
	}

	option := parseResponse(msg.Text, tpl.Options)
	if option == nil {
		return s.sendInvalidHelp(ctx, tpl, req, msg.Text)
	}

	status := models.ApprovalStatusApproved
	if isRejectLabel(option.Label) {
		status = models.ApprovalStatusRejected
	}
	optionNumber := option.Number
	choiceLabel := option.Label

	respondedAt := msg.Timestamp
	if respondedAt.IsZero() {
		respondedAt = time.Now()
	}

	err = s.repo.Approval().RecordResponse(req.ID, status, optionNumber, msg.Text, normalized, respondedAt)
	if errors.Is(err, repository.ErrNotFound) {
		// Lost the race against another reply.
		return s.acknowledgeResolved(ctx, normalized)
	}
	if err != nil {
		return err
	}

	s.logger.Info("Approval response recorded",
		zap.Int64("id", req.ID),
		zap.String("status", string(status)),
		zap.Int("option", optionNumber),
		zap.String("from", normalized))

	executed, err := s.executor.Execute(ctx, *option, req)
	if err != nil {
		s.logger.Error("Approval action failed",
			zap.Int64("id", req.ID),
			zap.String("action", string(option.ActionType)),
			zap.Error(err))
		if markErr := s.repo.Approval().MarkError(req.ID, err.Error()); markErr != nil {
			s.logger.Error("Failed to record approval error", zap.Int64("id", req.ID), zap.Error(markErr))
		}
		s.reply(ctx, req, fmt.Sprintf(
			"Your response was received but the action could not be completed: %s", err.Error()))
		return err
	}

	if err := s.repo.Approval().MarkProcessed(req.ID, executed); err != nil {
		s.logger.Error("Failed to mark approval processed", zap.Int64("id", req.ID), zap.Error(err))
	}

	if tpl.FirstResponseWins {
		cancelled, err := s.repo.Approval().CancelSiblings(req.RefDocType, req.RefDocID, req.ID)
		if err != nil {
			s.logger.Error("Failed to cancel sibling requests", zap.Int64("id", req.ID), zap.Error(err))
		} else if cancelled > 0 {
			s.logger.Info("Cancelled sibling approval requests",
				zap.Int64("id", req.ID),
				zap.Int64("count", cancelled))
		}
	}

	if tpl.SendConfirmation {
		s.sendConfirmation(ctx, tpl, req, choiceLabel)
	}

	return nil
}

// matchPending finds the most recent open request for the sender using
// three tiers: exact normalized match, raw stored phone, then trailing
// digits. Expired requests still match so the caller can report the expiry.
func (s *approvalService) matchPending(normalized, raw string) (*models.ApprovalRequest, error) {
	approvals := s.repo.Approval()

	open, err := approvals.FindOpenByFormattedPhone(normalized)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		open, err = approvals.FindOpenByRawPhone(raw)
		if err != nil {
			return nil, err
		}
	}
	if len(open) == 0 {
		suffix := phone.LastN(normalized, suffixMatchLength)
		if len(suffix) == suffixMatchLength {
			open, err = approvals.FindOpenBySuffix(suffix)
			if err != nil {
				return nil, err
			}
		}
	}

	if len(open) == 0 {
		return nil, nil
	}
	return open[0], nil
}

// acknowledgeResolved tells a sender whose request was settled recently that
// the reply came too late. Unmatched senders are ignored.
func (s *approvalService) acknowledgeResolved(ctx context.Context, normalized string) error {
	resolved, err := s.repo.Approval().FindRecentlyResolved(normalized, time.Now().Add(-resolvedCourtesyWindow))
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug("Inbound reply matched no approval request", zap.String("from", normalized))
		return nil
	}
	if err != nil {
		return err
	}

	s.reply(ctx, resolved, fmt.Sprintf(
		"This request for %s %s has already been processed (%s).",
		resolved.RefDocType, resolved.RefDocID, resolved.Status))
	return nil
}

func (s *approvalService) sendInvalidHelp(ctx context.Context, tpl *models.ApprovalTemplate, req *models.ApprovalRequest, text string) error {
	s.logger.Info("Unrecognized approval response",
		zap.Int64("id", req.ID),
		zap.String("text", render.Truncate(text, 80)))

	if !tpl.SendInvalidHelp {
		return nil
	}

	help := "Sorry, I did not understand that reply.\n\n" + buildOptionsMenu(tpl)
	if tpl.InvalidHelpTemplate.Valid && tpl.InvalidHelpTemplate.String != "" {
		help = tpl.InvalidHelpTemplate.String + "\n\n" + buildOptionsMenu(tpl)
	}

	s.reply(ctx, req, help)
	return nil
}

func (s *approvalService) sendConfirmation(ctx context.Context, tpl *models.ApprovalTemplate, req *models.ApprovalRequest, choice string) {
	message := fmt.Sprintf("Thank you. Your response %q for %s %s has been recorded.",
		choice, req.RefDocType, req.RefDocID)

	if tpl.ConfirmationTemplate.Valid && tpl.ConfirmationTemplate.String != "" {
		rendered, err := render.Render(tpl.ConfirmationTemplate.String, render.Context{
			"choice":   choice,
			"doctype":  req.RefDocType,
			"document": req.RefDocID,
		})
		if err == nil {
			message = rendered
		} else {
			s.logger.Warn("Confirmation template error", zap.String("template", tpl.Name), zap.Error(err))
		}
	}

	s.reply(ctx, req, message)
}

// reply enqueues a short service message back to the request's sender.
func (s *approvalService) reply(ctx context.Context, req *models.ApprovalRequest, text string) {
	_, err := s.delivery.Enqueue(ctx, EnqueueRequest{
		Recipient:  models.Recipient{Kind: models.RecipientKindPhone, Address: req.FormattedPhone},
		Message:    text,
		Kind:       models.MessageKindText,
		RefDocType: req.RefDocType,
		RefDocID:   req.RefDocID,
	})
	if err != nil {
		s.logger.Error("Failed to enqueue approval reply",
			zap.Int64("id", req.ID),
			zap.Error(err))
	}
}

// parseResponse resolves the reply to an option by its number. Anything
// that does not carry a valid option number is unparseable and triggers
// the invalid-response help.
func parseResponse(text string, options models.OptionList) *models.ApprovalOption {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if n, ok := parseOptionNumber(trimmed); ok {
		return options.ByNumber(n)
	}

	return nil
}

// parseOptionNumber tries, in order: the whole reply as an integer, leading
// digits, then the first standalone digit run.
func parseOptionNumber(text string) (int, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	if m := leadingDigits.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	if m := standaloneDigits.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ExpireOld closes out pending requests past their expiry.
func (s *approvalService) ExpireOld(ctx context.Context) error {
	expired, err := s.repo.Approval().ExpirePending(time.Now())
	if err != nil {
		return err
	}

	if expired > 0 {
		s.logger.Info("Expired approval requests", zap.Int64("count", expired))
	}
	return nil
}

func (s *approvalService) GetRequest(id int64) (*models.ApprovalRequest, error) {
	return s.repo.Approval().GetByID(id)
}

func (s *approvalService) ListRequests(refDocType, refDocID string, status models.ApprovalStatus, offset, limit int) ([]*models.ApprovalRequest, int64, error) {
	return s.repo.Approval().List(refDocType, refDocID, status, offset, limit)
}
