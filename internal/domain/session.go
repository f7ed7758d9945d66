package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session tracks one refresh token by its SHA-256 hash
type Session struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	RefreshTokenHash string    `json:"-" db:"refresh_token_hash"`
	UserAgent        string    `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress        string    `json:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt        time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// LoginHistory is an append-only audit row, closed on logout
type LoginHistory struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	IPAddress       string     `json:"ip_address" db:"ip_address"`
	UserAgent       string     `json:"user_agent" db:"user_agent"`
	LoginSuccessful bool       `json:"login_successful" db:"login_successful"`
	LoginAt         time.Time  `json:"login_at" db:"login_at"`
	LogoutAt        *time.Time `json:"logout_at,omitempty" db:"logout_at"`
}

func (h *LoginHistory) Open() bool {
	return h.LogoutAt == nil
}
