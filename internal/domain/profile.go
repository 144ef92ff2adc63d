package domain

import (
	"context"
	"time"
)

// ProfilesTable is the document collection holding one profile per identity.
const ProfilesTable = "users"

// Profile is the per-user document written at signup and shown on the dashboard.
type Profile struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity is an authenticated account as reported by the identity backend.
type Identity struct {
	UID   string
	Email string
	// Token is the session credential handed back to the browser.
	Token string
}

// IdentityProvider creates and authenticates accounts.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	// Refresh validates a session token and returns the identity it belongs to.
	Refresh(ctx context.Context, token string) (*Identity, error)
}

// ProfileRepository stores profile documents keyed by identity UID.
type ProfileRepository interface {
	// Save merges p into the document for p.UID. CreatedAt is assigned by
	// the store on the first write and preserved afterwards.
	Save(ctx context.Context, p *Profile) (*Profile, error)
	// GetByUID returns ErrProfileNotFound when no document exists.
	GetByUID(ctx context.Context, uid string) (*Profile, error)
	// FindByUsername returns ErrProfileNotFound when no document matches.
	FindByUsername(ctx context.Context, username string) (*Profile, error)
}
