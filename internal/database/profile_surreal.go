package database

import (
	"context"
	"strings"

	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type profileRecord struct {
	ID        *surrealmodels.RecordID       `json:"id,omitempty"`
	UID       string                        `json:"uid"`
	Name      string                        `json:"name"`
	Username  string                        `json:"username"`
	Email     string                        `json:"email"`
	Phone     string                        `json:"phone"`
	CreatedAt *surrealmodels.CustomDateTime `json:"createdAt,omitempty"`
}

func (r *profileRecord) toDomain() *domain.Profile {
	p := &domain.Profile{
		UID:      r.UID,
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Phone:    r.Phone,
	}
	if p.UID == "" {
		p.UID = recordKey(r.ID)
	}
	if r.CreatedAt != nil {
		p.CreatedAt = r.CreatedAt.Time
	}
	return p
}

// SurrealProfileStore keeps profile documents in the users table.
type SurrealProfileStore struct {
	conn *Connection
}

// NewSurrealProfileStore creates a new SurrealProfileStore.
func NewSurrealProfileStore(conn *Connection) *SurrealProfileStore {
	return &SurrealProfileStore{conn: conn}
}

// saveProfileQuery merges the profile fields into users:<uid>. createdAt is
// only assigned when the document does not have one yet.
const saveProfileQuery = `
	UPSERT type::thing($table, $uid) SET
		uid = $uid,
		name = $name,
		username = $username,
		email = $email,
		phone = $phone,
		createdAt = createdAt ?? time::now()
	RETURN AFTER;
`

// Save merges p into its document and returns the stored version.
func (s *SurrealProfileStore) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := boundedContext(ctx, s.conn.GetDBExecuteTimeout())
	defer cancel()

	params := map[string]any{
		"table":    domain.ProfilesTable,
		"uid":      p.UID,
		"name":     p.Name,
		"username": p.Username,
		"email":    p.Email,
		"phone":    p.Phone,
	}

	var saved *profileRecord
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		saved, err = QueryOne[profileRecord](ctx, db, saveProfileQuery, params)
		return err
	})
	if err != nil {
		if isUsernameConflict(err) {
			return nil, domain.ErrUsernameInUse
		}
		return nil, WrapError(err, "save profile")
	}
	if saved == nil {
		return nil, NewDBError(ErrNotFound, "save profile returned no record")
	}
	return saved.toDomain(), nil
}

// GetByUID loads the document users:<uid>.
func (s *SurrealProfileStore) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	return s.findOne(ctx, "get profile",
		"SELECT * FROM type::thing($table, $uid)",
		map[string]any{"table": domain.ProfilesTable, "uid": uid})
}

// FindByUsername returns the profile with the given username.
func (s *SurrealProfileStore) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return s.findOne(ctx, "find profile by username",
		"SELECT * FROM type::table($table) WHERE username = $username",
		map[string]any{"table": domain.ProfilesTable, "username": username})
}

func (s *SurrealProfileStore) findOne(ctx context.Context, op, query string, params map[string]any) (*domain.Profile, error) {
	ctx, cancel := boundedContext(ctx, s.conn.GetDBQueryTimeout())
	defer cancel()

	var rec *profileRecord
	err := s.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		rec, err = QueryOne[profileRecord](ctx, db, query, params)
		return err
	})
	if err != nil {
		return nil, WrapError(err, op)
	}
	if rec == nil {
		return nil, domain.ErrProfileNotFound
	}
	return rec.toDomain(), nil
}

// usernameIndex is the unique index on users.username in schema.surql.
const usernameIndex = "users_username_unique"

// isUsernameConflict reports whether err is a violation of usernameIndex.
func isUsernameConflict(err error) bool {
	return strings.Contains(err.Error(), usernameIndex)
}
