package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nfrund/profiledesk/internal/domain"
)

// ProfileStore is a domain.ProfileRepository backed by a map keyed by UID.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	now      func() time.Time
}

// NewProfileStore creates an empty ProfileStore.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]domain.Profile),
		now:      time.Now,
	}
}

// Save merges p into the stored profile. CreatedAt is assigned on first save
// and kept afterwards. A username held by another profile is rejected.
func (s *ProfileStore) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for uid, other := range s.profiles {
		if uid != p.UID && other.Username == p.Username {
			return nil, domain.ErrUsernameInUse
		}
	}

	saved := *p
	if existing, ok := s.profiles[p.UID]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else {
		saved.CreatedAt = s.now().UTC()
	}
	s.profiles[p.UID] = saved

	out := saved
	return &out, nil
}

func (s *ProfileStore) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

// FindByUsername returns the profile with the given username.
func (s *ProfileStore) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}
