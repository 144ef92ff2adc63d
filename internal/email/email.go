package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultSender is used when EMAIL_SENDER is empty.
const DefaultSender = "ProfileDesk <onboarding@resend.dev>"

// --- LogSender (for development) ---

// LogSender writes emails to the log instead of sending them.
type LogSender struct {
	senderAddress string
}

// NewLogSender creates a LogSender that reports from as the sender.
func NewLogSender(from string) *LogSender {
	return &LogSender{senderAddress: from}
}

// Send logs the email.
func (s *LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	slog.InfoContext(ctx, "Email sent (logged)",
		"event", "email_logged",
		"from", s.senderAddress,
		"to", to,
		"subject", subject,
		"body", htmlBody)
	return nil
}

// --- ResendSender (for production) ---

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender sends emails using the Resend API.
type ResendSender struct {
	apiKey        string
	senderAddress string
	endpoint      string
	client        *http.Client
}

// NewResendSender creates a ResendSender for apiKey.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		apiKey:        apiKey,
		senderAddress: from,
		endpoint:      resendEndpoint,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type resendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send dispatches an email using the Resend API.
func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	sender := s.senderAddress
	if sender == "" {
		sender = DefaultSender
	}

	body, err := json.Marshal(resendPayload{
		From:    sender,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr resendError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend API returned an error: status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend API returned an error: status %d", resp.StatusCode)
	}

	slog.InfoContext(ctx, "Successfully sent email via Resend", "event", "email_sent", "to", to, "subject", subject)
	return nil
}
