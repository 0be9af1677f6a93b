package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user accounts.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// ConsumeQuota applies the daily-quota state machine for one account as a
	// single atomic step: reset the counter if the stored anchor differs from
	// day, fail with ErrQuotaExceeded if the counter already reached limit
	// (no mutation), otherwise increment. Returns the counter after the call.
	// ErrNotFound here means the account vanished under a valid token.
	ConsumeQuota(ctx context.Context, id uuid.UUID, day time.Time, limit int) (int, error)
}

// User represents a registered account with its daily-quota state.
// AnalysisDate is the quota anchor: the calendar date the counter is valid
// for. It stays nil until the first quota-consuming action.
type User struct {
	ID            uuid.UUID
	Username      string
	PasswordHash  string
	AnalysisCount int
	AnalysisDate  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SameDay reports whether two timestamps fall on the same calendar date.
// Callers must have converted both to the reference timezone already.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
