package admission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"admissions/internal/models"
)

// Notifier and Indexer are best-effort side channels. Their failures are
// logged and never change a submission's outcome.
type Notifier interface {
	NotifySubmitted(ctx context.Context, rec *models.ApplicationRecord) error
}

type Indexer interface {
	IndexApplication(ctx context.Context, rec *models.ApplicationRecord) error
}

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSNotifier texts the applicant their student id through SNS.
type SMSNotifier struct {
	client   SNSAPI
	senderID string
	college  string
}

func NewSMSNotifier(client SNSAPI, senderID, college string) *SMSNotifier {
	return &SMSNotifier{client: client, senderID: senderID, college: college}
}

func (n *SMSNotifier) NotifySubmitted(ctx context.Context, rec *models.ApplicationRecord) error {
	phone := strings.ReplaceAll(strings.TrimSpace(rec.PersonalInfo.Phone), " ", "")
	if !strings.HasPrefix(phone, "+") {
		return fmt.Errorf("phone %q is not in E.164 format", rec.PersonalInfo.Phone)
	}

	in := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message: aws.String(fmt.Sprintf(
			"%s: congratulations %s, you have been admitted. Student ID %s. Check %s for your admission letter.",
			n.college, strings.TrimSpace(rec.PersonalInfo.FirstName), rec.StudentID, rec.PersonalInfo.Email)),
	}
	if n.senderID != "" {
		in.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(n.senderID)},
		}
	}

	if _, err := n.client.Publish(ctx, in); err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// SearchIndexer writes a searchable copy of each application to Elasticsearch.
// Essays and credentials are left out of the document.
type SearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndexer(client *elasticsearch.Client, index string) *SearchIndexer {
	return &SearchIndexer{client: client, index: index}
}

type searchDocument struct {
	StudentID      string `json:"studentId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HighSchool     string `json:"highSchool"`
	GraduationYear string `json:"graduationYear"`
	Qualification  string `json:"qualification"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	SubmittedAt    string `json:"submittedAt"`
}

func (s *SearchIndexer) IndexApplication(ctx context.Context, rec *models.ApplicationRecord) error {
	body, err := json.Marshal(searchDocument{
		StudentID:      rec.StudentID,
		Name:           rec.PersonalInfo.FullName(),
		Email:          rec.PersonalInfo.Email,
		HighSchool:     rec.Education.HighSchool,
		GraduationYear: rec.Education.GraduationYear,
		Qualification:  rec.Education.Qualification,
		Status:         rec.Status,
		PaymentStatus:  rec.PaymentStatus,
		SubmittedAt:    rec.SubmittedAt.UTC().Format(models.TimestampLayout),
	})
	if err != nil {
		return fmt.Errorf("marshal search document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: rec.StudentID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index application: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index application failed: %s", res.String())
	}
	return nil
}
