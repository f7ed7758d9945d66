package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type sessionRepository struct{ conn }

func (r *sessionRepository) Create(_ context.Context, session *domain.Session) error {
	return r.do(func(st *state) error {
		for _, s := range st.sessions {
			if s.RefreshTokenHash == session.RefreshTokenHash {
				return fmt.Errorf("session: %w", repository.ErrDuplicate)
			}
		}
		st.sessions[session.ID] = *session
		return nil
	})
}

func (r *sessionRepository) GetByTokenHash(_ context.Context, tokenHash string) (*domain.Session, error) {
	var found *domain.Session
	err := r.do(func(st *state) error {
		for _, s := range st.sessions {
			if s.RefreshTokenHash == tokenHash {
				found = &s
				return nil
			}
		}
		return fmt.Errorf("session not found: %w", repository.ErrNotFound)
	})
	return found, err
}

func (r *sessionRepository) GetByTokenHashForUpdate(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return r.GetByTokenHash(ctx, tokenHash)
}

func (r *sessionRepository) Update(_ context.Context, session *domain.Session) error {
	return r.do(func(st *state) error {
		existing, ok := st.sessions[session.ID]
		if !ok {
			return fmt.Errorf("session not found: %w", repository.ErrNotFound)
		}
		existing.RefreshTokenHash = session.RefreshTokenHash
		existing.ExpiresAt = session.ExpiresAt
		st.sessions[session.ID] = existing
		return nil
	})
}

func (r *sessionRepository) deleteWhere(pred func(s domain.Session) bool) int64 {
	var n int64
	_ = r.do(func(st *state) error {
		for id, s := range st.sessions {
			if pred(s) {
				delete(st.sessions, id)
				n++
			}
		}
		return nil
	})
	return n
}

func (r *sessionRepository) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.deleteWhere(func(s domain.Session) bool { return s.RefreshTokenHash == tokenHash })
	return nil
}

func (r *sessionRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.deleteWhere(func(s domain.Session) bool { return s.UserID == userID })
	return nil
}

func (r *sessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(func(s domain.Session) bool { return s.ExpiresAt.Before(now) }), nil
}

type loginHistoryRepository struct{ conn }

func (r *loginHistoryRepository) Create(_ context.Context, entry *domain.LoginHistory) error {
	return r.do(func(st *state) error {
		st.history = append(st.history, *entry)
		return nil
	})
}

func (r *loginHistoryRepository) CloseLatestOpen(_ context.Context, userID uuid.UUID, at time.Time) (bool, error) {
	var closed bool
	err := r.do(func(st *state) error {
		latest := -1
		for i, h := range st.history {
			if h.UserID != userID || !h.Open() {
				continue
			}
			if latest < 0 || h.LoginAt.After(st.history[latest].LoginAt) {
				latest = i
			}
		}
		if latest >= 0 {
			st.history[latest].LogoutAt = &at
			closed = true
		}
		return nil
	})
	return closed, err
}

func (r *loginHistoryRepository) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domain.LoginHistory, error) {
	var entries []*domain.LoginHistory
	err := r.do(func(st *state) error {
		for _, h := range st.history {
			if h.UserID == userID {
				entries = append(entries, &h)
			}
		}
		return nil
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].LoginAt.After(entries[j].LoginAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, err
}
