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

// Quota decides whether an authenticated user may perform one more
// quota-consuming action today, and records the consumption if so. The day
// boundary is computed in a fixed reference timezone, never the host zone;
// resets are lazy, applied by the store when the stored anchor goes stale.
type Quota struct {
	userStore model.UserStore
	clock     model.Clock
	location  *time.Location
	limit     int
	logger    *logger.Logger
}

func NewQuota(
	userStore model.UserStore,
	clock model.Clock,
	location *time.Location,
	limit int,
	logger *logger.Logger,
) *Quota {
	return &Quota{
		userStore: userStore,
		clock:     clock,
		location:  location,
		limit:     limit,
		logger:    logger,
	}
}

// CheckAndConsume admits one action for userID or fails with
// model.ErrQuotaExceeded. A failed check never mutates the counter. An
// account missing under a valid token is an internal inconsistency and is
// deliberately not surfaced as model.ErrNotFound.
func (q *Quota) CheckAndConsume(ctx context.Context, userID uuid.UUID) error {
	day := DateOf(q.clock.Now().In(q.location))

	count, err := q.userStore.ConsumeQuota(ctx, userID, day, q.limit)
	if errors.Is(err, model.ErrQuotaExceeded) {
		q.logger.Info("Quota service: daily limit reached",
			"user_id", userID,
			"limit", q.limit)
		return model.ErrQuotaExceeded
	}
	if errors.Is(err, model.ErrNotFound) {
		q.logger.Error("Quota service: account missing under a valid token",
			"user_id", userID)
		return fmt.Errorf("quota check: account %s not found", userID)
	}
	if err != nil {
		return fmt.Errorf("failed to consume quota: %w", err)
	}

	q.logger.Debug("Quota service: action admitted",
		"user_id", userID,
		"count", count,
		"limit", q.limit)

	return nil
}

// DateOf strips the time of day, keeping only the calendar date carried by t.
// The result is normalized to UTC midnight so equal dates compare equal
// regardless of the zone t arrived in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
