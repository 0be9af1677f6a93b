// Package inmemory provides a mutex-guarded user store with the same
// semantics as the postgres repository. It backs unit tests, including the
// quota concurrency properties, without a database.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

type UserStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]model.User
	byName map[string]uuid.UUID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:   make(map[uuid.UUID]model.User),
		byName: make(map[string]uuid.UUID),
	}
}

func (s *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[user.Username]; exists {
		return model.User{}, model.ErrUsernameTaken
	}

	s.byID[user.ID] = user
	s.byName[user.Username] = user.ID

	return user, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[username]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	return s.byID[id], nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}

	return user, nil
}

// ConsumeQuota holds the store lock for the whole read-check-increment
// sequence, which serializes concurrent calls for the same account.
func (s *UserStore) ConsumeQuota(_ context.Context, id uuid.UUID, day time.Time, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return 0, model.ErrNotFound
	}

	if user.AnalysisDate == nil || !model.SameDay(*user.AnalysisDate, day) {
		user.AnalysisCount = 0
	}

	if user.AnalysisCount >= limit {
		return 0, model.ErrQuotaExceeded
	}

	user.AnalysisCount++
	anchor := day
	user.AnalysisDate = &anchor
	user.UpdatedAt = time.Now()
	s.byID[id] = user

	return user.AnalysisCount, nil
}
