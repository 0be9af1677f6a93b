package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

var _ model.TokenManager = (*TokenManager)(nil)

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

var _ model.PasswordHasher = (*PasswordHasher)(nil)

type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	args := m.Called(password, encodedHash)
	return args.Bool(0), args.Error(1)
}

var _ model.Analyzer = (*Analyzer)(nil)

type Analyzer struct {
	mock.Mock
}

func (m *Analyzer) Analyze(ctx context.Context, lyrics, language string) (model.Analysis, error) {
	args := m.Called(ctx, lyrics, language)
	return args.Get(0).(model.Analysis), args.Error(1)
}

var _ model.Storage = (*Storage)(nil)

type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

var _ model.Clock = (*Clock)(nil)

type Clock struct {
	mock.Mock
}

func (m *Clock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}
