package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/entretech/wanotify/internal/document"
	"github.com/entretech/wanotify/internal/models"
	"github.com/entretech/wanotify/internal/phone"
	"github.com/entretech/wanotify/internal/render"
	"github.com/entretech/wanotify/internal/repository"
)

const (
	ruleCachePrefix = "wanotify:rules:"
	ruleCacheTTL    = 60 * time.Second
)

type ruleService struct {
	repo        repository.Repository
	settings    SettingsService
	delivery    DeliveryService
	documents   document.Store
	files       FileSource
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewRuleService(
	repo repository.Repository,
	settings SettingsService,
	delivery DeliveryService,
	documents document.Store,
	files FileSource,
	redisClient *redis.Client,
	logger *zap.Logger,
) RuleService {
	return &ruleService{
		repo:        repo,
		settings:    settings,
		delivery:    delivery,
		documents:   documents,
		files:       files,
		redisClient: redisClient,
		logger:      logger,
	}
}

// HandleEvent evaluates every enabled rule for the event's document type.
// Per-rule failures are logged and skipped so one bad rule cannot block the
// rest.
func (s *ruleService) HandleEvent(ctx context.Context, event models.DocumentEvent) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return nil
	}

	rules, err := s.rulesFor(ctx, event.DocType, event.Event)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	doc, err := s.documents.Get(ctx, event.DocType, event.DocID)
	if err != nil {
		return fmt.Errorf("failed to load document %s/%s: %w", event.DocType, event.DocID, err)
	}
	docCtx := buildDocContext(doc)

	for _, rule := range rules {
		applicable, err := s.isApplicable(rule, event, docCtx)
		if err != nil {
			s.logger.Warn("Rule evaluation failed",
				zap.String("rule", rule.Name),
				zap.Error(err))
			continue
		}
		if !applicable {
			continue
		}

		if err := s.fire(ctx, rule, doc, docCtx, settings); err != nil {
			s.logger.Error("Rule firing failed",
				zap.String("rule", rule.Name),
				zap.String("doc", event.DocID),
				zap.Error(err))
		}
	}

	return nil
}

// rulesFor serves the per-event rule list through a short redis cache.
func (s *ruleService) rulesFor(ctx context.Context, docType string, event models.TriggerEvent) ([]*models.NotificationRule, error) {
	key := ruleCachePrefix + docType + ":" + string(event)

	cached, err := s.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var rules []*models.NotificationRule
		if err := json.Unmarshal(cached, &rules); err == nil {
			return rules, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Rule cache read failed", zap.Error(err))
	}

	rules, err := s.repo.Rule().ListForEvent(docType, event)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rules); err == nil {
		if err := s.redisClient.Set(ctx, key, data, ruleCacheTTL).Err(); err != nil {
			s.logger.Warn("Rule cache write failed", zap.Error(err))
		}
	}

	return rules, nil
}

func (s *ruleService) isApplicable(rule *models.NotificationRule, event models.DocumentEvent, docCtx render.Context) (bool, error) {
	if rule.ValueChangedField.Valid && rule.ValueChangedField.String != "" {
		if !event.FieldChanged(rule.ValueChangedField.String) {
			return false, nil
		}
	}

	if rule.Condition.Valid && strings.TrimSpace(rule.Condition.String) != "" {
		ok, err := render.EvalCondition(rule.Condition.String, docCtx)
		if err != nil {
			return false, fmt.Errorf("condition error: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	if !withinActiveHours(rule, time.Now()) {
		return false, nil
	}

	if rule.SendOnce {
		sent, err := s.repo.MessageLog().ExistsForRule(rule.Name, event.DocType, event.DocID)
		if err != nil {
			return false, err
		}
		if sent {
			return false, nil
		}
	}

	return true, nil
}

// withinActiveHours checks the rule's send window; start after end means an
// overnight window.
func withinActiveHours(rule *models.NotificationRule, now time.Time) bool {
	if !rule.ActiveHoursStart.Valid || !rule.ActiveHoursEnd.Valid {
		return true
	}

	start, err1 := time.Parse("15:04", rule.ActiveHoursStart.String)
	end, err2 := time.Parse("15:04", rule.ActiveHoursEnd.String)
	if err1 != nil || err2 != nil {
		return true
	}

	minutes := now.Hour()*60 + now.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin <= endMin {
		return minutes >= startMin && minutes <= endMin
	}
	return minutes >= startMin || minutes <= endMin
}

func (s *ruleService) fire(ctx context.Context, rule *models.NotificationRule, doc *document.Document, docCtx render.Context, settings *models.Settings) error {
	recipients, err := s.resolveRecipients(ctx, rule, doc, settings)
	if err != nil {
		return err
	}

	message, err := render.Render(rule.MessageTemplate, docCtx)
	if err != nil {
		return fmt.Errorf("template error: %w", err)
	}

	media := s.resolveMedia(ctx, rule, doc)

	var scheduledAt *time.Time
	if rule.DelaySeconds > 0 {
		at := time.Now().Add(time.Duration(rule.DelaySeconds) * time.Second)
		scheduledAt = &at
	}

	for _, recipient := range recipients {
		req := EnqueueRequest{
			Recipient:     recipient,
			Message:       message,
			Kind:          models.MessageKindText,
			RefDocType:    doc.Type,
			RefDocID:      doc.ID,
			RuleName:      rule.Name,
			RecipientName: recipient.Name,
			ScheduledAt:   scheduledAt,
		}
		if media != nil {
			req.Kind = models.MessageKindMedia
			req.MediaMimetype = media.MimeType
			req.MediaFilename = media.Filename
			req.MediaData = media.Data
			req.MediaCaption = message
		}

		if _, err := s.delivery.Enqueue(ctx, req); err != nil {
			s.logger.Error("Failed to enqueue rule message",
				zap.String("rule", rule.Name),
				zap.String("to", recipient.Address),
				zap.Error(err))
		}
	}

	if rule.NotifyOwner && len(settings.OwnerNumbers) > 0 {
		s.notifyOwners(ctx, rule, doc, docCtx, settings, scheduledAt)
	}

	return nil
}

// notifyOwners sends the owner variant of the message to the configured
// owner numbers, falling back to the main template.
func (s *ruleService) notifyOwners(ctx context.Context, rule *models.NotificationRule, doc *document.Document, docCtx render.Context, settings *models.Settings, scheduledAt *time.Time) {
	tmpl := rule.MessageTemplate
	if rule.OwnerTemplate.Valid && strings.TrimSpace(rule.OwnerTemplate.String) != "" {
		tmpl = rule.OwnerTemplate.String
	}

	message, err := render.Render(tmpl, docCtx)
	if err != nil {
		s.logger.Warn("Owner template error", zap.String("rule", rule.Name), zap.Error(err))
		return
	}

	for _, number := range settings.OwnerNumbers {
		_, err := s.delivery.Enqueue(ctx, EnqueueRequest{
			Recipient:   models.Recipient{Kind: models.RecipientKindPhone, Address: number},
			Message:     message,
			Kind:        models.MessageKindText,
			RefDocType:  doc.Type,
			RefDocID:    doc.ID,
			RuleName:    rule.Name,
			ScheduledAt: scheduledAt,
		})
		if err != nil {
			s.logger.Error("Failed to enqueue owner message",
				zap.String("rule", rule.Name),
				zap.String("to", number),
				zap.Error(err))
		}
	}
}

func (s *ruleService) resolveRecipients(ctx context.Context, rule *models.NotificationRule, doc *document.Document, settings *models.Settings) ([]models.Recipient, error) {
	var recipients []models.Recipient
	seen := make(map[string]bool)

	add := func(r models.Recipient) {
		if r.Address == "" || seen[r.Address] {
			return
		}
		seen[r.Address] = true
		recipients = append(recipients, r)
	}

	fromField := func() error {
		if !rule.PhoneField.Valid || rule.PhoneField.String == "" {
			return nil
		}
		value, err := s.documents.FieldValue(ctx, doc, rule.PhoneField.String)
		if err != nil {
			return fmt.Errorf("phone field %q: %w", rule.PhoneField.String, err)
		}
		if str, ok := value.(string); ok && str != "" {
			add(models.Recipient{Kind: models.RecipientKindPhone, Address: str})
		}
		return nil
	}

	fromGroup := func() {
		if rule.GroupID.Valid && rule.GroupID.String != "" {
			add(models.Recipient{
				Kind:    models.RecipientKindGroup,
				Address: rule.GroupID.String,
				Name:    rule.GroupName.String,
			})
		}
	}

	switch rule.RecipientSource {
	case models.RecipientFieldValue:
		if err := fromField(); err != nil {
			return nil, err
		}
	case models.RecipientFixedNumbers:
		for _, number := range rule.FixedRecipients {
			add(models.Recipient{Kind: models.RecipientKindPhone, Address: number})
		}
	case models.RecipientBoth:
		if err := fromField(); err != nil {
			return nil, err
		}
		for _, number := range rule.FixedRecipients {
			add(models.Recipient{Kind: models.RecipientKindPhone, Address: number})
		}
	case models.RecipientGroup:
		fromGroup()
	case models.RecipientPhoneAndGrp:
		if err := fromField(); err != nil {
			return nil, err
		}
		fromGroup()
	default:
		return nil, fmt.Errorf("unknown recipient source %q", rule.RecipientSource)
	}

	// No direct recipient: fall back to the owner numbers so the event is
	// not silently dropped.
	if len(recipients) == 0 {
		for _, number := range settings.OwnerNumbers {
			add(models.Recipient{Kind: models.RecipientKindPhone, Address: number})
		}
	}
	if len(recipients) == 0 {
		return nil, errors.New("no recipients resolved")
	}

	return recipients, nil
}

// resolveMedia loads the rule's media payload. Failures degrade to a plain
// text message.
func (s *ruleService) resolveMedia(ctx context.Context, rule *models.NotificationRule, doc *document.Document) *File {
	if s.files == nil {
		return nil
	}

	var (
		file *File
		err  error
	)

	switch rule.MediaMode {
	case "", models.MediaModeNone:
		return nil
	case models.MediaModeFixedFile:
		if !rule.FixedFileURL.Valid || rule.FixedFileURL.String == "" {
			return nil
		}
		file, err = s.files.Fetch(ctx, rule.FixedFileURL.String)
	case models.MediaModeAttachment:
		value, ok := doc.Field("attachment")
		url, isStr := value.(string)
		if !ok || !isStr || url == "" {
			return nil
		}
		file, err = s.files.Fetch(ctx, url)
	case models.MediaModeGenerated:
		file, err = s.files.GenerateDocument(ctx, doc.Type, doc.ID, "")
	default:
		return nil
	}

	if err != nil {
		s.logger.Warn("Media resolution failed, sending text only",
			zap.String("rule", rule.Name),
			zap.String("mode", string(rule.MediaMode)),
			zap.Error(err))
		return nil
	}
	return file
}

func (s *ruleService) ListRules() ([]*models.NotificationRule, error) {
	return s.repo.Rule().List()
}

// SaveRule persists the rule and drops its cached event list.
func (s *ruleService) SaveRule(ctx context.Context, rule *models.NotificationRule) error {
	if err := s.repo.Rule().Save(rule); err != nil {
		return err
	}

	key := ruleCachePrefix + rule.DocType + ":" + string(rule.Event)
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("Rule cache invalidation failed", zap.Error(err))
	}

	return nil
}

// buildDocContext exposes the document under the "doc" key for templates.
func buildDocContext(doc *document.Document) render.Context {
	fields := make(map[string]interface{}, len(doc.Fields)+3)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields["name"] = doc.ID
	fields["doctype"] = doc.Type
	if doc.WorkflowState != "" {
		fields["workflow_state"] = doc.WorkflowState
	}

	return render.Context{"doc": fields}
}

// normalizeForMatch is a shared helper for the approval flow: it returns the
// normalized number when possible, the bare digits otherwise.
func normalizeForMatch(raw string, settings *models.Settings) string {
	cfg := phone.Config{
		CountryCode:   settings.DefaultCountryCode,
		LocalLength:   settings.LocalNumberLength,
		LocalPrefixes: settings.LocalPrefixes,
	}
	if formatted, err := phone.Normalize(raw, cfg); err == nil {
		return formatted
	}
	return phone.Digits(raw)
}
