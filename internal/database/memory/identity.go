// Package memory provides in-process identity and profile stores used for
// local development and tests.
package memory

import (
	"context"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nfrund/profiledesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength mirrors the minimum enforced by the SurrealDB access method.
const MinPasswordLength = 6

type account struct {
	uid   string
	email string
	hash  []byte
}

// IdentityStore is a domain.IdentityProvider backed by maps. Passwords are
// stored as bcrypt hashes and tokens are random UUIDs that never expire.
type IdentityStore struct {
	mu       sync.RWMutex
	byEmail  map[string]*account
	byToken  map[string]*account
	hashCost int
}

// NewIdentityStore creates an empty IdentityStore.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		byEmail:  make(map[string]*account),
		byToken:  make(map[string]*account),
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *IdentityStore) WithHashCost(cost int) *IdentityStore {
	s.hashCost = cost
	return s
}

func (s *IdentityStore) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return nil, domain.ErrEmailAlreadyInUse
	}

	acc := &account{uid: uuid.NewString(), email: email, hash: hash}
	s.byEmail[key] = acc
	return s.issue(acc), nil
}

func (s *IdentityStore) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	acc, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(acc), nil
}

func (s *IdentityStore) Refresh(ctx context.Context, token string) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byToken[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Identity{UID: acc.uid, Email: acc.email, Token: token}, nil
}

// issue must be called with the write lock held.
func (s *IdentityStore) issue(acc *account) *domain.Identity {
	token := uuid.NewString()
	s.byToken[token] = acc
	return &domain.Identity{UID: acc.uid, Email: acc.email, Token: token}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
