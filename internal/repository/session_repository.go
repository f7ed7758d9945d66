package repository

import (
	"context"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// GetByTokenHashForUpdate locks the session so a refresh token rotates once
	GetByTokenHashForUpdate(ctx context.Context, tokenHash string) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type LoginHistoryRepository interface {
	Create(ctx context.Context, entry *domain.LoginHistory) error
	// CloseLatestOpen stamps logout_at on the newest open row; closed reports
	// whether one existed
	CloseLatestOpen(ctx context.Context, userID uuid.UUID, at time.Time) (closed bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.LoginHistory, error)
}
