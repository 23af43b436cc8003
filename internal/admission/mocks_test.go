package admission

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"admissions/internal/models"
)

type MockSESService struct {
	SendEmailFunc    func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	SendRawEmailFunc func(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

func (m *MockSESService) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	return m.SendRawEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// recordingMailer keeps every email it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, email Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg-1", nil
}

func (m *recordingMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

type funcNotifier func(ctx context.Context, rec *models.ApplicationRecord) error

func (f funcNotifier) NotifySubmitted(ctx context.Context, rec *models.ApplicationRecord) error {
	return f(ctx, rec)
}

type funcIndexer func(ctx context.Context, rec *models.ApplicationRecord) error

func (f funcIndexer) IndexApplication(ctx context.Context, rec *models.ApplicationRecord) error {
	return f(ctx, rec)
}
