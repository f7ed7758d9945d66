package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	TokenType        string    `json:"token_type"`
}

type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID  `json:"uid"`
	Email     string     `json:"email,omitempty"`
	Role      Role       `json:"role,omitempty"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
	SessionID *uuid.UUID `json:"sid,omitempty"`
	TokenType string     `json:"type"`
	// IssuedAtMs is the issue time in Unix milliseconds. iat only has
	// second precision.
	IssuedAtMs int64 `json:"iat_ms,omitempty"`
}

// IssuedAtTime returns the most precise issue time the token carries
func (c *Claims) IssuedAtTime() (time.Time, bool) {
	if c.IssuedAtMs > 0 {
		return time.UnixMilli(c.IssuedAtMs), true
	}
	if c.IssuedAt != nil {
		return c.IssuedAt.Time, true
	}
	return time.Time{}, false
}
