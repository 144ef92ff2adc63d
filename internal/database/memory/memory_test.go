package memory

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIdentityStore(t *testing.T) {
	ctx := context.Background()
	store := NewIdentityStore().WithHashCost(bcrypt.MinCost)

	identity, err := store.CreateAccount(ctx, "asha@gmail.com", "s3cret@pass")
	require.NoError(t, err)
	assert.NotEmpty(t, identity.UID)
	assert.NotEmpty(t, identity.Token)
	assert.Equal(t, "asha@gmail.com", identity.Email)

	t.Run("create account errors", func(t *testing.T) {
		tests := []struct {
			name     string
			email    string
			password string
			want     error
		}{
			{"duplicate email", "asha@gmail.com", "another@pass", domain.ErrEmailAlreadyInUse},
			{"duplicate email ignores case", "ASHA@gmail.com", "another@pass", domain.ErrEmailAlreadyInUse},
			{"short password", "new@gmail.com", "abc", domain.ErrWeakPassword},
			{"malformed email", "not-an-email", "s3cret@pass", domain.ErrInvalidEmail},
			{"email without domain dot", "a@localhost", "s3cret@pass", domain.ErrInvalidEmail},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := store.CreateAccount(ctx, tt.email, tt.password)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("refresh returns the account behind a token", func(t *testing.T) {
		refreshed, err := store.Refresh(ctx, identity.Token)
		require.NoError(t, err)
		assert.Equal(t, identity.UID, refreshed.UID)

		_, err = store.Refresh(ctx, "unknown")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("sign in", func(t *testing.T) {
		signedIn, err := store.SignIn(ctx, "asha@gmail.com", "s3cret@pass")
		require.NoError(t, err)
		assert.Equal(t, identity.UID, signedIn.UID)
		assert.NotEqual(t, identity.Token, signedIn.Token)

		_, err = store.SignIn(ctx, "asha@gmail.com", "wrong@pass")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = store.SignIn(ctx, "nobody@gmail.com", "s3cret@pass")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.CreateAccount(cctx, "late@gmail.com", "s3cret@pass")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	saved, err := store.Save(ctx, &domain.Profile{UID: "u1", Name: "Asha Rao", Username: "asha", Email: "asha@gmail.com", Phone: "+919876543210"})
	require.NoError(t, err)
	assert.Equal(t, clock, saved.CreatedAt)

	t.Run("merge keeps createdAt", func(t *testing.T) {
		clock = clock.Add(time.Hour)
		again, err := store.Save(ctx, &domain.Profile{UID: "u1", Name: "Asha R", Username: "asha", Email: "asha@gmail.com", Phone: "+919876543210"})
		require.NoError(t, err)
		assert.Equal(t, saved.CreatedAt, again.CreatedAt)
		assert.Equal(t, "Asha R", again.Name)
	})

	t.Run("get by uid", func(t *testing.T) {
		p, err := store.GetByUID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "asha", p.Username)

		_, err = store.GetByUID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("username held by another profile is rejected", func(t *testing.T) {
		_, err := store.Save(ctx, &domain.Profile{UID: "u2", Username: "asha"})
		assert.ErrorIs(t, err, domain.ErrUsernameInUse)

		_, err = store.GetByUID(ctx, "u2")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("find by username", func(t *testing.T) {
		p, err := store.FindByUsername(ctx, "asha")
		require.NoError(t, err)
		assert.Equal(t, "u1", p.UID)

		_, err = store.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}
