// Package notify sends the welcome email when an account is created.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/metrics"
	"github.com/nfrund/profiledesk/internal/pubsub"
	"github.com/nfrund/profiledesk/internal/signup"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// WelcomeSubject is the subject line of the welcome email.
const WelcomeSubject = "Welcome to ProfileDesk 🎉"

// Subscriber listens for new accounts and emails them.
type Subscriber struct {
	sub     pubsub.Subscriber
	sender  domain.EmailSender
	baseURL string
}

// NewSubscriber creates a Subscriber. baseURL is used for the login link.
func NewSubscriber(sub pubsub.Subscriber, sender domain.EmailSender, baseURL string) *Subscriber {
	return &Subscriber{sub: sub, sender: sender, baseURL: baseURL}
}

// Start subscribes to account creation events. Messages are handled in the
// background until ctx is canceled or the subscriber is closed.
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.sub.Subscribe(ctx, signup.AccountCreated.Name(), s.handle); err != nil {
		return fmt.Errorf("subscribe to %s: %w", signup.AccountCreated.Name(), err)
	}
	slog.InfoContext(ctx, "Welcome email subscriber started", "event", "notify_started", "topic", signup.AccountCreated.Name())
	return nil
}

func (s *Subscriber) handle(ctx context.Context, msg pubsub.Message) error {
	account, err := pubsub.Decode(signup.AccountCreated, msg)
	if err != nil {
		return err
	}

	body, err := WelcomeEmail(account, s.baseURL+"/login")
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	err = s.sender.Send(ctx, account.Email, WelcomeSubject, body)
	metrics.RecordWelcomeEmail(err)
	if err != nil {
		return fmt.Errorf("send welcome email to %s: %w", account.UID, err)
	}

	slog.InfoContext(ctx, "Welcome email sent", "event", "welcome_email_sent", "uid", account.UID)
	return nil
}

// WelcomeEmail renders the HTML body of the welcome email.
func WelcomeEmail(account signup.AccountCreatedPayload, loginURL string) (string, error) {
	var buf bytes.Buffer
	err := h.Div(
		h.Style("font-family: sans-serif; line-height: 1.5"),
		h.H1(g.Textf("Welcome, %s 🎉", account.Name)),
		h.P(g.Text("Your account has been created. Here are the details we have on file:")),
		h.Ul(
			h.Li(g.Text("Username: "+account.Username)),
			h.Li(g.Text("Email: "+account.Email)),
			h.Li(g.Text("Phone: "+account.Phone)),
		),
		h.P(h.A(h.Href(loginURL), g.Text("Login to your dashboard"))),
	).Render(&buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
