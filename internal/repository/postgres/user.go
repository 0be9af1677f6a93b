package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

const uniqueViolation = "23505"

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, username, password_hash, analysis_count, created_at, updated_at)
			  VALUES ($1, $2, $3, 0, $4, $5)
			  RETURNING id, username, password_hash, analysis_count, analysis_date, created_at, updated_at`

	var savedUser model.User
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(
		&savedUser.ID, &savedUser.Username, &savedUser.PasswordHash,
		&savedUser.AnalysisCount, &savedUser.AnalysisDate, &savedUser.CreatedAt, &savedUser.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	query := `SELECT id, username, password_hash, analysis_count, analysis_date, created_at, updated_at
			  FROM users WHERE username = $1`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash,
		&user.AnalysisCount, &user.AnalysisDate, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	query := `SELECT id, username, password_hash, analysis_count, analysis_date, created_at, updated_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash,
		&user.AnalysisCount, &user.AnalysisDate, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// ConsumeQuota runs the lazy-reset/check/increment sequence as one UPDATE so
// the row lock serializes concurrent requests for the same account. Zero rows
// affected means either the limit is reached (no mutation happened) or the
// account is gone; a follow-up read disambiguates the two.
func (r *UserRepository) ConsumeQuota(ctx context.Context, id uuid.UUID, day time.Time, limit int) (int, error) {
	query := `UPDATE users
			  SET analysis_count = CASE WHEN analysis_date IS DISTINCT FROM $2::date THEN 1 ELSE analysis_count + 1 END,
			      analysis_date = $2::date,
			      updated_at = NOW()
			  WHERE id = $1 AND (analysis_date IS DISTINCT FROM $2::date OR analysis_count < $3)
			  RETURNING analysis_count`

	var count int
	err := r.db.QueryRow(ctx, query, id, day, limit).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, model.ErrQuotaExceeded
	}
	if err != nil {
		return 0, fmt.Errorf("failed to consume quota: %w", err)
	}

	return count, nil
}
