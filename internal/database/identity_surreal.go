package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// accessMethod is the record access method defined in schema.surql.
const accessMethod = "account"

type accountRecord struct {
	ID    *surrealmodels.RecordID `json:"id,omitempty"`
	Email string                  `json:"email"`
}

// SurrealIdentityStore authenticates accounts through SurrealDB record access.
type SurrealIdentityStore struct {
	conn *Connection
	ns   string
	db   string
}

// NewSurrealIdentityStore creates a new SurrealIdentityStore.
func NewSurrealIdentityStore(conn *Connection, ns, db string) *SurrealIdentityStore {
	return &SurrealIdentityStore{conn: conn, ns: ns, db: db}
}

// CreateAccount signs up a new account and returns its identity.
func (s *SurrealIdentityStore) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	session, err := s.conn.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close(ctx)

	token, err := session.SignUp(ctx, s.credentials(email, password))
	if err != nil {
		return nil, fmt.Errorf("create account: %w", classifySignUpError(err))
	}

	identity, err := s.identify(ctx, session, token)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "event", "account_created", "uid", identity.UID)
	return identity, nil
}

// SignIn exchanges an email and password for a session token.
func (s *SurrealIdentityStore) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	session, err := s.conn.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close(ctx)

	token, err := session.SignIn(ctx, s.credentials(email, password))
	if err != nil {
		if isConnectionError(err) {
			return nil, NewDBError(err, "sign in")
		}
		return nil, domain.ErrInvalidCredentials
	}

	return s.identify(ctx, session, token)
}

// Refresh validates token and returns the identity it was issued to.
func (s *SurrealIdentityStore) Refresh(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.conn.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close(ctx)

	return s.identify(ctx, session, token)
}

// identify authenticates session with token and reads the account behind it.
func (s *SurrealIdentityStore) identify(ctx context.Context, session *surrealdb.DB, token string) (*domain.Identity, error) {
	if err := session.Authenticate(ctx, token); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := QueryOne[accountRecord](ctx, session, "SELECT id, email FROM $auth", nil)
	if err != nil {
		return nil, WrapError(err, "read authenticated account")
	}
	if account == nil || account.ID == nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{
		UID:   recordKey(account.ID),
		Email: account.Email,
		Token: token,
	}, nil
}

func (s *SurrealIdentityStore) credentials(email, password string) map[string]any {
	return map[string]any{
		"ns":       s.ns,
		"db":       s.db,
		"ac":       accessMethod,
		"email":    email,
		"password": password,
	}
}

// recordKey returns the id part of a record id ("account:abc" -> "abc").
func recordKey(id *surrealmodels.RecordID) string {
	if id == nil {
		return ""
	}
	if key, ok := id.ID.(string); ok {
		return key
	}
	return fmt.Sprint(id.ID)
}

// classifySignUpError maps the codes thrown by the SIGNUP clause, and the
// errors raised by the account table's unique index and email assertion,
// onto the domain error catalogue.
func classifySignUpError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, domain.CodeEmailAlreadyInUse),
		strings.Contains(msg, "already contains"),
		strings.Contains(msg, "already exists"):
		return domain.ErrEmailAlreadyInUse
	case strings.Contains(msg, domain.CodeWeakPassword):
		return domain.ErrWeakPassword
	case strings.Contains(msg, domain.CodeInvalidEmail),
		strings.Contains(msg, "string::is::email"):
		return domain.ErrInvalidEmail
	default:
		return NewDBError(err, "sign up")
	}
}
