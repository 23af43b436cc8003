package admission

import (
	"context"
	"fmt"

	"admissions/internal/common/aws"
	"admissions/internal/common/config"
	"admissions/internal/common/database"
	"admissions/internal/common/logger"
	"admissions/internal/store"
)

// NewMailer picks the delivery provider named by email.provider.
func NewMailer(ctx context.Context, cfg *config.Config) (Mailer, error) {
	switch cfg.Email.Provider {
	case "ses":
		client, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("create ses client: %w", err)
		}
		return NewSESMailer(client), nil
	case "smtp":
		return NewSMTPMailer(cfg.Email), nil
	default:
		return DisabledMailer{}, nil
	}
}

// NewFromConfig assembles a Processor and its optional SMS and search hooks
// from configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config, st store.Store, log logger.Logger) (*Processor, error) {
	letters, err := NewLetterRenderer(cfg.Admission)
	if err != nil {
		return nil, err
	}
	mailer, err := NewMailer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := Dependencies{
		Store:           st,
		Mailer:          mailer,
		Letters:         letters,
		From:            cfg.Email.From,
		EmailConfigured: cfg.Email.Configured(),
		Logger:          log,
	}

	if cfg.SMS.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("create sns client: %w", err)
		}
		deps.Notifier = NewSMSNotifier(client, cfg.SMS.SenderID, cfg.Admission.CollegeName)
	}

	if es := cfg.Database.Elasticsearch; es.Enabled {
		client, err := database.NewElasticsearch(es)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx); err != nil {
			log.Warn("elasticsearch unreachable, indexing will be retried per submission", map[string]interface{}{
				"error": err.Error(),
			})
		}
		deps.Indexer = NewSearchIndexer(client.Client, es.Index)
	}

	return NewProcessor(cfg.Admission, deps), nil
}
