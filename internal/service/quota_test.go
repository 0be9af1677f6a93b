package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyristudy/lyristudy-server/internal/mocks"
	"github.com/lyristudy/lyristudy-server/internal/model"
	"github.com/lyristudy/lyristudy-server/internal/repository/inmemory"
	"github.com/lyristudy/lyristudy-server/internal/testutil"
)

func TestQuota_CheckAndConsume(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC)

	t.Run("admits under the limit", func(t *testing.T) {
		userStore := &mocks.UserStore{}
		clock := &mocks.Clock{}
		clock.On("Now").Return(now)
		userStore.On("ConsumeQuota", ctx, userID, DateOf(now), 20).Return(1, nil).Once()

		q := NewQuota(userStore, clock, time.UTC, 20, testutil.MakeNoopLogger())

		require.NoError(t, q.CheckAndConsume(ctx, userID))
		userStore.AssertExpectations(t)
	})

	t.Run("rejects at the limit", func(t *testing.T) {
		userStore := &mocks.UserStore{}
		clock := &mocks.Clock{}
		clock.On("Now").Return(now)
		userStore.On("ConsumeQuota", ctx, userID, DateOf(now), 20).
			Return(0, model.ErrQuotaExceeded).Once()

		q := NewQuota(userStore, clock, time.UTC, 20, testutil.MakeNoopLogger())

		err := q.CheckAndConsume(ctx, userID)
		assert.ErrorIs(t, err, model.ErrQuotaExceeded)
	})

	t.Run("missing account is an internal error, not a 404", func(t *testing.T) {
		userStore := &mocks.UserStore{}
		clock := &mocks.Clock{}
		clock.On("Now").Return(now)
		userStore.On("ConsumeQuota", ctx, userID, DateOf(now), 20).
			Return(0, model.ErrNotFound).Once()

		q := NewQuota(userStore, clock, time.UTC, 20, testutil.MakeNoopLogger())

		err := q.CheckAndConsume(ctx, userID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		userStore := &mocks.UserStore{}
		clock := &mocks.Clock{}
		clock.On("Now").Return(now)
		userStore.On("ConsumeQuota", ctx, userID, DateOf(now), 20).
			Return(0, errors.New("db down")).Once()

		q := NewQuota(userStore, clock, time.UTC, 20, testutil.MakeNoopLogger())

		err := q.CheckAndConsume(ctx, userID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to consume quota")
	})

	t.Run("day is computed in the reference zone", func(t *testing.T) {
		// 19:30 UTC on the 14th is already 03:30 on the 15th in Taipei.
		taipei, err := time.LoadLocation("Asia/Taipei")
		require.NoError(t, err)

		utcLateNight := time.Date(2025, 6, 14, 19, 30, 0, 0, time.UTC)

		userStore := &mocks.UserStore{}
		clock := &mocks.Clock{}
		clock.On("Now").Return(utcLateNight)

		wantDay := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		userStore.On("ConsumeQuota", ctx, userID, wantDay, 20).Return(1, nil).Once()

		q := NewQuota(userStore, clock, taipei, 20, testutil.MakeNoopLogger())

		require.NoError(t, q.CheckAndConsume(ctx, userID))
		userStore.AssertExpectations(t)
	})
}

func TestQuota_DailyLimitProperty(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewUserStore()

	user := model.User{ID: uuid.New(), Username: "alice"}
	_, err := store.Create(ctx, user)
	require.NoError(t, err)

	clock := &mocks.Clock{}
	clock.On("Now").Return(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	q := NewQuota(store, clock, time.UTC, 5, testutil.MakeNoopLogger())

	for i := 0; i < 5; i++ {
		require.NoError(t, q.CheckAndConsume(ctx, user.ID))
	}

	err = q.CheckAndConsume(ctx, user.ID)
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)

	// A failed check must not mutate the counter: it stays rejected.
	err = q.CheckAndConsume(ctx, user.ID)
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
}

func TestQuota_DayRolloverResets(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewUserStore()

	user := model.User{ID: uuid.New(), Username: "alice"}
	_, err := store.Create(ctx, user)
	require.NoError(t, err)

	day1 := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC)

	clock := &mocks.Clock{}
	clock.On("Now").Return(day1).Twice()

	q := NewQuota(store, clock, time.UTC, 1, testutil.MakeNoopLogger())

	require.NoError(t, q.CheckAndConsume(ctx, user.ID))
	assert.ErrorIs(t, q.CheckAndConsume(ctx, user.ID), model.ErrQuotaExceeded)

	clock.ExpectedCalls = nil
	clock.On("Now").Return(day2)

	require.NoError(t, q.CheckAndConsume(ctx, user.ID))
}

func TestQuota_ConcurrentHeadroom(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewUserStore()

	user := model.User{ID: uuid.New(), Username: "alice"}
	_, err := store.Create(ctx, user)
	require.NoError(t, err)

	clock := &mocks.Clock{}
	clock.On("Now").Return(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	const limit = 7
	const workers = 30

	q := NewQuota(store, clock, time.UTC, limit, testutil.MakeNoopLogger())

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- q.CheckAndConsume(ctx, user.ID)
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	rejected := 0
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, model.ErrQuotaExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, limit, admitted)
	assert.Equal(t, workers-limit, rejected)
}

func TestDateOf(t *testing.T) {
	taipei, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	a := DateOf(time.Date(2025, 6, 15, 23, 59, 59, 0, taipei))
	b := DateOf(time.Date(2025, 6, 15, 0, 0, 1, 0, time.UTC))

	assert.Equal(t, a, b)
	assert.True(t, model.SameDay(a, b))
}
