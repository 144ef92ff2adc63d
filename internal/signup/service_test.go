package signup_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nfrund/profiledesk/internal/database/memory"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/pubsub"
	"github.com/nfrund/profiledesk/internal/signup"
	"github.com/nfrund/profiledesk/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingPublisher keeps every published message and can be told to fail.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// stubIdentities lets a test fail individual identity calls.
type stubIdentities struct {
	domain.IdentityProvider
	refreshErr error
}

func (s *stubIdentities) Refresh(ctx context.Context, token string) (*domain.Identity, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.IdentityProvider.Refresh(ctx, token)
}

// failingProfiles rejects every write.
type failingProfiles struct {
	domain.ProfileRepository
}

func (failingProfiles) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	return nil, errors.New("document store unavailable")
}

// brokenLookup fails username lookups with a storage error.
type brokenLookup struct {
	domain.ProfileRepository
}

func (brokenLookup) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return nil, errors.New("index unavailable")
}

func validForm() validation.SignupForm {
	return validation.SignupForm{
		Name:     "Asha Rao",
		Username: "asha.rao",
		Email:    "asha@gmail.com",
		Phone:    "9876543210",
		Password: "s3cret@pass",
		Confirm:  "s3cret@pass",
	}
}

func newIdentities() *memory.IdentityStore {
	return memory.NewIdentityStore().WithHashCost(bcrypt.MinCost)
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfileStore()
	pub := &recordingPublisher{}
	svc := signup.NewService(newIdentities(), profiles, pub, "+91")

	result, err := svc.Register(ctx, validForm())
	require.NoError(t, err)

	assert.Equal(t, "/login", result.Redirect)
	require.NotNil(t, result.Identity)
	assert.NotEmpty(t, result.Identity.Token)

	stored, err := profiles.GetByUID(ctx, result.Identity.UID)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", stored.Phone)
	assert.Equal(t, "asha.rao", stored.Username)
	assert.Equal(t, "asha@gmail.com", stored.Email)
	assert.False(t, stored.CreatedAt.IsZero())

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	assert.Equal(t, "account.created", msg.Topic)
	assert.Equal(t, result.Identity.UID, msg.UserID)

	payload, err := pubsub.Decode(signup.AccountCreated, msg)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", payload.Name)
	assert.Equal(t, "+919876543210", payload.Phone)
}

func TestRegister_CountryCodeIsConfigurable(t *testing.T) {
	ctx := context.Background()
	profiles := memory.NewProfileStore()
	svc := signup.NewService(newIdentities(), profiles, nil, "+44")

	result, err := svc.Register(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, "+449876543210", result.Profile.Phone)
}

func TestRegister_BackendErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email maps to the catalog message", func(t *testing.T) {
		identities := newIdentities()
		svc := signup.NewService(identities, memory.NewProfileStore(), nil, "+91")

		_, err := svc.Register(ctx, validForm())
		require.NoError(t, err)

		form := validForm()
		form.Username = "asha.r"
		_, err = svc.Register(ctx, form)
		require.ErrorIs(t, err, domain.ErrEmailAlreadyInUse)
		assert.Equal(t, "This email is already registered. Please login!", domain.MessageFor(err))
	})

	t.Run("taken username is rejected before the account is created", func(t *testing.T) {
		identities := newIdentities()
		profiles := memory.NewProfileStore()
		pub := &recordingPublisher{}
		svc := signup.NewService(identities, profiles, pub, "+91")

		first, err := svc.Register(ctx, validForm())
		require.NoError(t, err)

		form := validForm()
		form.Email = "other@gmail.com"
		_, err = svc.Register(ctx, form)
		require.ErrorIs(t, err, domain.ErrUsernameInUse)
		assert.Equal(t, "This username is already taken!", domain.MessageFor(err))

		_, err = identities.SignIn(ctx, "other@gmail.com", form.Password)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "no account is created for the second signup")

		p, err := profiles.FindByUsername(ctx, "asha.rao")
		require.NoError(t, err)
		assert.Equal(t, first.Profile.UID, p.UID)
		assert.Len(t, pub.messages, 1)
	})

	t.Run("username lookup failure aborts", func(t *testing.T) {
		svc := signup.NewService(newIdentities(), brokenLookup{}, nil, "+91")

		_, err := svc.Register(ctx, validForm())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "check username")
	})

	t.Run("weak password", func(t *testing.T) {
		svc := signup.NewService(newIdentities(), memory.NewProfileStore(), nil, "+91")
		form := validForm()
		form.Password, form.Confirm = "abc", "abc"

		_, err := svc.Register(ctx, form)
		require.ErrorIs(t, err, domain.ErrWeakPassword)
		assert.Equal(t, "Password should be at least 6 characters!", domain.MessageFor(err))
	})

	t.Run("refresh failure stops before the profile write", func(t *testing.T) {
		profiles := memory.NewProfileStore()
		pub := &recordingPublisher{}
		identities := &stubIdentities{IdentityProvider: newIdentities(), refreshErr: domain.ErrInvalidCredentials}
		svc := signup.NewService(identities, profiles, pub, "+91")

		_, err := svc.Register(ctx, validForm())
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = profiles.FindByUsername(ctx, "asha.rao")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
		assert.Empty(t, pub.messages)
	})

	t.Run("profile write failure uses the error text", func(t *testing.T) {
		pub := &recordingPublisher{}
		svc := signup.NewService(newIdentities(), failingProfiles{}, pub, "+91")

		_, err := svc.Register(ctx, validForm())
		require.Error(t, err)
		assert.Contains(t, domain.MessageFor(err), "document store unavailable")
		assert.Empty(t, pub.messages)
	})
}

func TestRegister_PublishFailureDoesNotFailSignup(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("bus closed")}
	svc := signup.NewService(newIdentities(), memory.NewProfileStore(), pub, "+91")

	result, err := svc.Register(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, "/login", result.Redirect)
}
