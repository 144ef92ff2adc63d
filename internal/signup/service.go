// Package signup implements the account registration sequence.
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/metrics"
	"github.com/nfrund/profiledesk/internal/pubsub"
	"github.com/nfrund/profiledesk/internal/validation"
)

// LoginPath is where a successful signup sends the browser.
const LoginPath = "/login"

// Result is the outcome of a successful registration.
type Result struct {
	Identity *domain.Identity
	Profile  *domain.Profile
	Redirect string
}

// Service registers accounts: create account, refresh the credential, write
// the profile document, then announce the new account.
type Service struct {
	identities  domain.IdentityProvider
	profiles    domain.ProfileRepository
	publisher   pubsub.Publisher
	countryCode string
}

// NewService creates a signup Service. countryCode is prepended to the
// 10-digit phone number before it is stored.
func NewService(identities domain.IdentityProvider, profiles domain.ProfileRepository, publisher pubsub.Publisher, countryCode string) *Service {
	return &Service{
		identities:  identities,
		profiles:    profiles,
		publisher:   publisher,
		countryCode: countryCode,
	}
}

// Register runs the signup sequence for a form that already passed
// validation. Any identity or storage failure aborts the sequence; the
// returned error resolves to a user message through domain.MessageFor.
func (s *Service) Register(ctx context.Context, form validation.SignupForm) (result *Result, err error) {
	defer func() { metrics.RecordSignup(err) }()

	// Login resolves usernames to accounts, so a username maps to one account.
	if err := s.checkUsername(ctx, form.Username); err != nil {
		slog.WarnContext(ctx, "Username rejected", "event", "signup_username_rejected",
			"username", form.Username, "code", domain.CodeFor(err), "error", err)
		return nil, fmt.Errorf("check username: %w", err)
	}

	created, err := s.identities.CreateAccount(ctx, form.Email, form.Password)
	if err != nil {
		slog.WarnContext(ctx, "Account creation failed", "event", "signup_create_failed",
			"email", form.Email, "code", domain.CodeFor(err), "error", err)
		return nil, fmt.Errorf("create account: %w", err)
	}

	// The profile is written with a freshly validated credential.
	identity, err := s.identities.Refresh(ctx, created.Token)
	if err != nil {
		slog.ErrorContext(ctx, "Credential refresh failed", "event", "signup_refresh_failed",
			"uid", created.UID, "error", err)
		return nil, fmt.Errorf("refresh credential: %w", err)
	}

	profile, err := s.profiles.Save(ctx, &domain.Profile{
		UID:      identity.UID,
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Phone:    s.countryCode + form.Phone,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Profile write failed", "event", "signup_profile_failed",
			"uid", identity.UID, "error", err)
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.announce(ctx, profile)

	slog.InfoContext(ctx, "Signup completed", "event", "signup_completed", "uid", profile.UID, "username", profile.Username)
	return &Result{Identity: identity, Profile: profile, Redirect: LoginPath}, nil
}

func (s *Service) checkUsername(ctx context.Context, username string) error {
	_, err := s.profiles.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.ErrUsernameInUse
	case errors.Is(err, domain.ErrProfileNotFound):
		return nil
	default:
		return err
	}
}

// announce publishes AccountCreated. The account already exists at this
// point, so a failure is only logged.
func (s *Service) announce(ctx context.Context, p *domain.Profile) {
	if s.publisher == nil {
		return
	}
	err := pubsub.Publish(ctx, s.publisher, AccountCreated, p.UID, AccountCreatedPayload{
		UID:      p.UID,
		Name:     p.Name,
		Username: p.Username,
		Email:    p.Email,
		Phone:    p.Phone,
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish account created event", "event", "signup_publish_failed",
			"uid", p.UID, "error", err)
	}
}
