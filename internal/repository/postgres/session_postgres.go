package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type sessionRepository struct {
	db sqlx.ExtContext
}

// Create inserts a new session
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (
			id, user_id, refresh_token_hash, user_agent,
			ip_address, expires_at, created_at
		) VALUES (
			:id, :user_id, :refresh_token_hash, :user_agent,
			:ip_address, :expires_at, :created_at
		)`

	return execNamed(ctx, r.db, "session", query, session, false)
}

const sessionColumns = `id, user_id, refresh_token_hash, user_agent, ip_address, expires_at, created_at`

// GetByTokenHash retrieves a session by the hash of its refresh token
func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return r.getByHash(ctx, tokenHash, "")
}

func (r *sessionRepository) GetByTokenHashForUpdate(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return r.getByHash(ctx, tokenHash, " FOR UPDATE")
}

func (r *sessionRepository) getByHash(ctx context.Context, tokenHash, suffix string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_token_hash = $1` + suffix

	var session domain.Session
	if err := getOne(ctx, r.db, &session, "session", query, tokenHash); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update rotates the refresh token hash and expiry of a session
func (r *sessionRepository) Update(ctx context.Context, session *domain.Session) error {
	query := `
		UPDATE sessions SET
			refresh_token_hash = :refresh_token_hash,
			expires_at = :expires_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "session", query, session, true)
}

func (r *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUserID removes every session of a user
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

type loginHistoryRepository struct {
	db sqlx.ExtContext
}

func (r *loginHistoryRepository) Create(ctx context.Context, entry *domain.LoginHistory) error {
	query := `
		INSERT INTO login_history (
			id, user_id, ip_address, user_agent, login_successful, login_at, logout_at
		) VALUES (
			:id, :user_id, :ip_address, :user_agent, :login_successful, :login_at, :logout_at
		)`

	return execNamed(ctx, r.db, "login history", query, entry, false)
}

func (r *loginHistoryRepository) CloseLatestOpen(ctx context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE login_history SET logout_at = $2
		WHERE id = (
			SELECT id FROM login_history
			WHERE user_id = $1 AND logout_at IS NULL
			ORDER BY login_at DESC
			LIMIT 1
			FOR UPDATE
		)`

	result, err := r.db.ExecContext(ctx, query, userID, at)
	if err != nil {
		return false, fmt.Errorf("failed to close login history: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *loginHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.LoginHistory, error) {
	query := `
		SELECT id, user_id, ip_address, user_agent, login_successful, login_at, logout_at
		FROM login_history
		WHERE user_id = $1
		ORDER BY login_at DESC
		LIMIT $2`

	var entries []*domain.LoginHistory
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list login history: %w", err)
	}
	return entries, nil
}
