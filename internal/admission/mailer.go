package admission

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"

	"admissions/internal/common/config"
)

var ErrEmailNotConfigured = errors.New("email delivery is not configured")

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Email struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer delivers one message and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type SESMailer struct {
	client SESAPI
}

func NewSESMailer(client SESAPI) *SESMailer {
	return &SESMailer{client: client}
}

func (m *SESMailer) Send(ctx context.Context, email Email) (string, error) {
	if len(email.Attachments) > 0 {
		raw, err := buildMIMEMessage(email, "")
		if err != nil {
			return "", err
		}
		out, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
			RawMessage: &types.RawMessage{Data: raw},
		})
		if err != nil {
			return "", fmt.Errorf("ses send raw email: %w", err)
		}
		return aws.ToString(out.MessageId), nil
	}

	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(email.Text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(email.HTML), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(email.From),
	})
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// SMTPMailer sends through a plain SMTP relay, upgrading with STARTTLS when
// UseTLS is set.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
}

func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		useTLS:   cfg.SMTP.UseTLS,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled before sending email: %w", err)
	}

	messageID := fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), uuid.NewString()[:8], m.host)
	msg, err := buildMIMEMessage(email, messageID)
	if err != nil {
		return "", err
	}

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return "", fmt.Errorf("parse sender: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if m.useTLS {
		err = m.sendWithTLS(addr, auth, from.Address, []string{email.To}, msg)
	} else {
		err = smtp.SendMail(addr, auth, from.Address, []string{email.To}, msg)
	}
	if err != nil {
		return "", err
	}
	return messageID, nil
}

func (m *SMTPMailer) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}

// DisabledMailer is used when email.provider is none. Every send fails.
type DisabledMailer struct{}

func (DisabledMailer) Send(context.Context, Email) (string, error) {
	return "", ErrEmailNotConfigured
}

// buildMIMEMessage renders a multipart/mixed message holding a
// multipart/alternative text+html body followed by any attachments.
func buildMIMEMessage(email Email, messageID string) ([]byte, error) {
	var buf bytes.Buffer

	mixed := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", email.From)
	fmt.Fprintf(&buf, "To: %s\r\n", email.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	if messageID != "" {
		fmt.Fprintf(&buf, "Message-ID: %s\r\n", messageID)
	}
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	var altBody bytes.Buffer
	alt := multipart.NewWriter(&altBody)
	if err := writeTextPart(alt, "text/plain; charset=UTF-8", email.Text); err != nil {
		return nil, err
	}
	if err := writeTextPart(alt, "text/html; charset=UTF-8", email.HTML); err != nil {
		return nil, err
	}
	if err := alt.Close(); err != nil {
		return nil, fmt.Errorf("close alternative part: %w", err)
	}

	altHeader := textproto.MIMEHeader{}
	altHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary()))
	pw, err := mixed.CreatePart(altHeader)
	if err != nil {
		return nil, fmt.Errorf("create body part: %w", err)
	}
	if _, err := pw.Write(altBody.Bytes()); err != nil {
		return nil, fmt.Errorf("write body part: %w", err)
	}

	for _, a := range email.Attachments {
		h := textproto.MIMEHeader{}
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		h.Set("Content-Transfer-Encoding", "base64")
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		aw, err := mixed.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create attachment part: %w", err)
		}
		if _, err := aw.Write([]byte(wrapBase64(a.Content))); err != nil {
			return nil, fmt.Errorf("write attachment %s: %w", a.Filename, err)
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "base64")
	pw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	_, err = pw.Write([]byte(wrapBase64([]byte(body))))
	return err
}

// wrapBase64 encodes data in 76-column lines.
func wrapBase64(data []byte) string {
	enc := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(enc) > 76 {
		b.WriteString(enc[:76])
		b.WriteString("\r\n")
		enc = enc[76:]
	}
	b.WriteString(enc)
	b.WriteString("\r\n")
	return b.String()
}
