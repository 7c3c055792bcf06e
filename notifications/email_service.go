package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjiri1684/referral_rewards/logging"
	"go.uber.org/zap"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Mailer delivers transactional e-mail.
type Mailer interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error
}

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string

	client *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// NewMailer returns a Brevo mailer, or a logging no-op when the sender is not configured.
func NewMailer(apiKey, senderEmail, senderName string) Mailer {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		logging.Logger.Warn("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		return NoopMailer{}
	}
	logging.Logger.Info("✅ Email service initialized successfully.", zap.String("sender", senderEmail))
	return NewBrevoService(apiKey, senderEmail, senderName)
}

func (s *BrevoService) SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to send email via Brevo: status %d: %s", resp.StatusCode, string(respBody))
	}

	logging.Logger.Info("✅ Email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

type NoopMailer struct{}

func (NoopMailer) SendEmail(_ context.Context, _, toEmail, subject, _ string) error {
	logging.Logger.Debug("Email client not initialized, skipping email send.",
		zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}
