package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

// UserStore is an in-memory store.UserStore fake.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User

	// Error injection hooks. When set, the hook's error is returned before
	// the in-memory state is touched.
	GetByIDFn     func(ctx context.Context, id uuid.UUID) error
	UpdateStatsFn func(ctx context.Context, id uuid.UUID) error
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*domain.User)}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.GetByIDFn != nil {
		if err := s.GetByIDFn(ctx, id); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// UpdateParameters implements store.UserStore.UpdateParameters
func (s *UserStore) UpdateParameters(
	ctx context.Context,
	id uuid.UUID,
	params domain.FSRSParameters,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Parameters = params
	user.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStats implements store.UserStore.UpdateStats
func (s *UserStore) UpdateStats(ctx context.Context, id uuid.UUID, stats domain.UserStats) error {
	if s.UpdateStatsFn != nil {
		if err := s.UpdateStatsFn(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Stats = stats
	user.UpdatedAt = time.Now().UTC()
	return nil
}

// WithTx implements store.UserStore.WithTx. The fake has no transaction
// semantics, so it returns itself.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}
