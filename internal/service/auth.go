package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// dummyPassword feeds the verification performed for unknown usernames so
// login timing does not reveal whether an account exists.
const dummyPassword = "lyristudy.dummy"

// Auth issues credentials: it registers accounts and exchanges valid
// username/password pairs for access tokens.
type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	tokens    model.TokenManager
	logger    *logger.Logger
	dummyHash string
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.Error("Auth service: failed to precompute dummy hash",
			"error", err.Error())
	}

	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// Register creates a new account with a hashed secret and a zeroed quota.
// Duplicate usernames surface as model.ErrUsernameTaken; uniqueness is
// enforced by the store, not by a check-then-insert.
func (a *Auth) Register(ctx context.Context, username, password string) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"username", username)

	if username == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: username and password are required", model.ErrInvalidInput)
	}

	passwordHash, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrUsernameTaken) {
		a.logger.Info("Auth service: username already taken",
			"username", username)
		return model.User{}, model.ErrUsernameTaken
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username,
		"user_id", saved.ID)

	return saved, nil
}

// Login verifies the password and issues an access token. Unknown usernames
// and wrong passwords return the same model.ErrInvalidCredentials; the
// unknown-user path still performs one hash verification so the two cases
// cannot be told apart by timing.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Auth service: starting login",
		"username", username)

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		if a.dummyHash != "" {
			_, _ = a.hasher.Verify(password, a.dummyHash)
		}
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	valid, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return "", model.ErrInvalidCredentials
	}

	tokenString, err := a.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"username", username,
			"error", err.Error())
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed",
		"username", username,
		"user_id", user.ID)

	return tokenString, nil
}
