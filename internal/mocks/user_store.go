// Package mocks contains testify mocks for the model ports.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.UserStore = (*UserStore)(nil)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) ConsumeQuota(ctx context.Context, id uuid.UUID, day time.Time, limit int) (int, error) {
	args := m.Called(ctx, id, day, limit)
	return args.Int(0), args.Error(1)
}
