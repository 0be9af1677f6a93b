package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lyristudy/lyristudy-server/internal/mocks"
	"github.com/lyristudy/lyristudy-server/internal/model"
	"github.com/lyristudy/lyristudy-server/internal/testutil"
)

func newAuthService(t *testing.T) (*Auth, *mocks.UserStore, *mocks.PasswordHasher, *mocks.TokenManager) {
	t.Helper()

	userStore := &mocks.UserStore{}
	hasher := &mocks.PasswordHasher{}
	tokens := &mocks.TokenManager{}

	hasher.On("Hash", dummyPassword).Return("dummy-hash", nil).Once()

	return NewAuth(userStore, hasher, tokens, testutil.MakeNoopLogger()), userStore, hasher, tokens
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, userStore, hasher, _ := newAuthService(t)

		hasher.On("Hash", "secret").Return("hashed", nil).Once()
		userStore.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
			return u.Username == "alice" && u.PasswordHash == "hashed" && u.ID != uuid.Nil
		})).Return(model.User{ID: uuid.New(), Username: "alice"}, nil).Once()

		user, err := svc.Register(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		userStore.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("empty username", func(t *testing.T) {
		svc, userStore, _, _ := newAuthService(t)

		_, err := svc.Register(ctx, "", "secret")
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty password", func(t *testing.T) {
		svc, _, _, _ := newAuthService(t)

		_, err := svc.Register(ctx, "alice", "")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("username taken", func(t *testing.T) {
		svc, userStore, hasher, _ := newAuthService(t)

		hasher.On("Hash", "secret").Return("hashed", nil).Once()
		userStore.On("Create", ctx, mock.Anything).Return(model.User{}, model.ErrUsernameTaken).Once()

		_, err := svc.Register(ctx, "alice", "secret")
		assert.ErrorIs(t, err, model.ErrUsernameTaken)
	})

	t.Run("store error", func(t *testing.T) {
		svc, userStore, hasher, _ := newAuthService(t)

		hasher.On("Hash", "secret").Return("hashed", nil).Once()
		userStore.On("Create", ctx, mock.Anything).Return(model.User{}, errors.New("db down")).Once()

		_, err := svc.Register(ctx, "alice", "secret")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrUsernameTaken)
	})
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, userStore, hasher, tokens := newAuthService(t)

		userID := uuid.New()
		userStore.On("GetByUsername", ctx, "alice").
			Return(model.User{ID: userID, Username: "alice", PasswordHash: "hashed"}, nil).Once()
		hasher.On("Verify", "secret", "hashed").Return(true, nil).Once()
		tokens.On("GenerateAccessToken", userID).Return("token-123", nil).Once()

		token, err := svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "token-123", token)

		tokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userStore, hasher, tokens := newAuthService(t)

		userStore.On("GetByUsername", ctx, "alice").
			Return(model.User{ID: uuid.New(), PasswordHash: "hashed"}, nil).Once()
		hasher.On("Verify", "wrong", "hashed").Return(false, nil).Once()

		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)

		tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
	})

	t.Run("unknown user returns same error as wrong password", func(t *testing.T) {
		svc, userStore, hasher, _ := newAuthService(t)

		userStore.On("GetByUsername", ctx, "ghost").Return(model.User{}, model.ErrNotFound).Once()
		// The dummy verification keeps the unknown-user path as expensive as
		// the wrong-password path.
		hasher.On("Verify", "secret", "dummy-hash").Return(false, nil).Once()

		_, err := svc.Login(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)

		hasher.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		svc, userStore, _, _ := newAuthService(t)

		userStore.On("GetByUsername", ctx, "alice").Return(model.User{}, errors.New("db down")).Once()

		_, err := svc.Login(ctx, "alice", "secret")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("token issue error", func(t *testing.T) {
		svc, userStore, hasher, tokens := newAuthService(t)

		userID := uuid.New()
		userStore.On("GetByUsername", ctx, "alice").
			Return(model.User{ID: userID, PasswordHash: "hashed"}, nil).Once()
		hasher.On("Verify", "secret", "hashed").Return(true, nil).Once()
		tokens.On("GenerateAccessToken", userID).Return("", errors.New("sign fail")).Once()

		_, err := svc.Login(ctx, "alice", "secret")
		require.Error(t, err)
	})
}
