package admission

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"admissions/internal/common/config"
	apperrors "admissions/internal/common/errors"
	"admissions/internal/common/logger"
	"admissions/internal/common/metrics"
	"admissions/internal/models"
	"admissions/internal/store"
)

const (
	MsgSubmitted = "Application submitted successfully and admission letter sent"
	MsgResent    = "Admission letter resent successfully"

	healthTimeout = 2 * time.Second
)

// Dependencies wires a Processor. Store, Mailer and Letters are required;
// Notifier and Indexer are optional.
type Dependencies struct {
	Store           store.Store
	Mailer          Mailer
	Letters         *LetterRenderer
	Notifier        Notifier
	Indexer         Indexer
	IDs             IDSource
	Clock           func() time.Time
	From            string
	EmailConfigured bool
	Logger          logger.Logger
}

// Processor is the admission backend: it assigns student ids, persists
// applications and emails admission letters.
type Processor struct {
	store           store.Store
	mailer          Mailer
	letters         *LetterRenderer
	notifier        Notifier
	indexer         Indexer
	ids             IDSource
	now             func() time.Time
	from            string
	emailConfigured bool
	maxIDAttempts   int
	logger          logger.Logger
}

func NewProcessor(cfg config.AdmissionConfig, deps Dependencies) *Processor {
	p := &Processor{
		store:           deps.Store,
		mailer:          deps.Mailer,
		letters:         deps.Letters,
		notifier:        deps.Notifier,
		indexer:         deps.Indexer,
		ids:             deps.IDs,
		now:             deps.Clock,
		from:            deps.From,
		emailConfigured: deps.EmailConfigured,
		maxIDAttempts:   cfg.MaxIDAttempts,
		logger:          deps.Logger,
	}
	if p.ids == nil {
		p.ids = RandomIDs{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.mailer == nil {
		p.mailer = DisabledMailer{}
	}
	if p.maxIDAttempts < 1 {
		p.maxIDAttempts = 1
	}
	if p.logger == nil {
		p.logger = logger.NewNoOpLogger()
	}
	p.logger = p.logger.WithFields(map[string]interface{}{"component": "admission-processor"})
	return p
}

// MissingFields lists the required personal fields that are empty after
// trimming, in payload order. Whitespace-only values count as missing, the
// same rule the form validators apply before submitting.
func MissingFields(payload models.SubmissionPayload) []string {
	var missing []string
	if strings.TrimSpace(payload.PersonalInfo.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(payload.PersonalInfo.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(payload.PersonalInfo.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// Submit persists the application under a fresh student id and sends the
// admission letter. When the letter cannot be sent the record stays stored
// and the returned error carries MsgEmailFailed.
func (p *Processor) Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error) {
	start := time.Now()
	defer func() {
		metrics.ProcessingDuration.WithLabelValues("submit").Observe(time.Since(start).Seconds())
	}()

	resp, err := p.submit(ctx, payload)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(apperrors.AsStandardError(err).Code)).Inc()
		return nil, err
	}
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	return resp, nil
}

func (p *Processor) submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error) {
	if missing := MissingFields(payload); len(missing) > 0 {
		p.logger.Warn("rejecting application with missing fields", map[string]interface{}{
			"missing": missing,
		})
		return nil, apperrors.NewMissingRequiredFieldsError(missing)
	}

	studentID, err := allocateStudentID(ctx, p.ids, p.store, p.maxIDAttempts)
	if err != nil {
		p.logger.Error("failed to allocate student id", map[string]interface{}{"error": err})
		return nil, err
	}

	rec := &models.ApplicationRecord{
		SubmissionPayload: payload,
		StudentID:         studentID,
		SubmittedAt:       p.now().UTC(),
		Status:            models.StatusSubmitted,
		PaymentStatus:     models.PaymentStatusPending,
	}
	log := p.logger.WithFields(map[string]interface{}{"studentId": studentID})

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("marshal application: %w", err))
	}
	if err := p.store.Set(ctx, store.ApplicationKey(studentID), raw); err != nil {
		log.Error("failed to store application", map[string]interface{}{"error": err})
		return nil, apperrors.NewApplicationPersistFailedError(err)
	}
	log.Info("application stored", map[string]interface{}{
		"email": rec.PersonalInfo.Email,
	})

	if err := p.sendLetter(ctx, rec, false); err != nil {
		log.Error("failed to send admission letter", map[string]interface{}{"error": err})
		se := apperrors.AsStandardError(err)
		se.Metadata = map[string]interface{}{"studentId": studentID}
		return nil, se
	}

	p.sideChannels(ctx, rec, log)

	return &models.SubmitResponse{
		Success:     true,
		Message:     MsgSubmitted,
		StudentID:   studentID,
		Email:       rec.PersonalInfo.Email,
		SubmittedAt: rec.SubmittedAt.Format(models.TimestampLayout),
	}, nil
}

// sideChannels runs the optional SMS and search-index hooks.
func (p *Processor) sideChannels(ctx context.Context, rec *models.ApplicationRecord, log logger.Logger) {
	if p.notifier != nil {
		if err := p.notifier.NotifySubmitted(ctx, rec); err != nil {
			log.WithError(err).Warn("sms notification failed", nil)
		}
	}
	if p.indexer != nil {
		if err := p.indexer.IndexApplication(ctx, rec); err != nil {
			log.WithError(err).Warn("search indexing failed", nil)
		}
	}
}

func (p *Processor) sendLetter(ctx context.Context, rec *models.ApplicationRecord, resend bool) error {
	kind := "initial"
	if resend {
		kind = "resend"
	}

	letter, err := p.letters.Render(rec, p.now(), resend)
	if err != nil {
		metrics.LettersSent.WithLabelValues(kind, "render_failed").Inc()
		return apperrors.NewLetterRenderFailedError(err)
	}

	email := Email{
		From:    p.from,
		To:      strings.TrimSpace(rec.PersonalInfo.Email),
		Subject: letter.Subject,
		HTML:    letter.HTML,
		Text:    letter.Text,
	}
	if len(letter.PDF) > 0 {
		email.Attachments = []Attachment{{
			Filename:    letter.Filename,
			ContentType: "application/pdf",
			Content:     letter.PDF,
		}}
	}

	messageID, err := p.mailer.Send(ctx, email)
	if err != nil {
		metrics.LettersSent.WithLabelValues(kind, "failed").Inc()
		return apperrors.NewEmailDispatchFailedError(err)
	}
	metrics.LettersSent.WithLabelValues(kind, "sent").Inc()

	p.logger.Info("admission letter sent", map[string]interface{}{
		"studentId": rec.StudentID,
		"kind":      kind,
		"messageId": messageID,
	})
	return nil
}

func (p *Processor) load(ctx context.Context, studentID string) (*models.ApplicationRecord, error) {
	raw, err := p.store.Get(ctx, store.ApplicationKey(studentID))
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewApplicationNotFoundError(studentID)
	}
	if err != nil {
		return nil, apperrors.NewApplicationLookupFailedError(err)
	}

	var rec models.ApplicationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.NewApplicationLookupFailedError(fmt.Errorf("decode application %s: %w", studentID, err))
	}
	return &rec, nil
}

// Status returns the summary of a stored application.
func (p *Processor) Status(ctx context.Context, studentID string) (*models.ApplicationSummary, error) {
	start := time.Now()
	defer func() {
		metrics.ProcessingDuration.WithLabelValues("status").Observe(time.Since(start).Seconds())
	}()

	rec, err := p.load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	summary := rec.Summary()
	return &summary, nil
}

// ResendLetter re-sends the letter of a stored application with the resend
// subject line.
func (p *Processor) ResendLetter(ctx context.Context, studentID string) (*models.SubmitResponse, error) {
	start := time.Now()
	defer func() {
		metrics.ProcessingDuration.WithLabelValues("resend").Observe(time.Since(start).Seconds())
	}()

	rec, err := p.load(ctx, studentID)
	if err != nil {
		if se := apperrors.AsStandardError(err); se.Code != apperrors.ErrCodeApplicationNotFound {
			return nil, se.WithMessage(apperrors.MsgResendFailed)
		}
		return nil, err
	}

	if err := p.sendLetter(ctx, rec, true); err != nil {
		p.logger.Error("failed to resend admission letter", map[string]interface{}{
			"studentId": studentID,
			"error":     err,
		})
		return nil, apperrors.AsStandardError(err).WithMessage(apperrors.MsgResendFailed)
	}

	return &models.SubmitResponse{
		Success:   true,
		Message:   MsgResent,
		StudentID: rec.StudentID,
		Email:     rec.PersonalInfo.Email,
	}, nil
}

// Health pings the store and reports whether a mail provider is set up.
func (p *Processor) Health(ctx context.Context) models.HealthResponse {
	resp := models.HealthResponse{
		Status:    models.HealthOK,
		Timestamp: p.now().UTC(),
		Services: models.HealthServices{
			Database: models.ServiceConnected,
			Email:    models.ServiceNotConfigured,
		},
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := p.store.Ping(pingCtx); err != nil {
		p.logger.Warn("store ping failed", map[string]interface{}{"error": err})
		resp.Services.Database = models.ServiceDisconnected
	}
	if p.emailConfigured {
		resp.Services.Email = models.ServiceConfigured
	}
	return resp
}
