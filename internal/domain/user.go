package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OTPLength        = 6
	OTPTTL           = 10 * time.Minute
	VerificationTTL  = 24 * time.Hour
	PasswordResetTTL = 24 * time.Hour
)

type User struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	Email                   string     `json:"email" db:"email"`
	PasswordHash            string     `json:"-" db:"password_hash"`
	FirstName               string     `json:"first_name" db:"first_name"`
	LastName                string     `json:"last_name" db:"last_name"`
	Phone                   string     `json:"phone" db:"phone"`
	Designation             string     `json:"designation" db:"designation"`
	Role                    Role       `json:"role" db:"role"`
	CustomRoleName          *string    `json:"custom_role_name" db:"custom_role_name"`
	TenantID                *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	IsActive                bool       `json:"is_active" db:"is_active"`
	EmailVerified           bool       `json:"email_verified" db:"email_verified"`
	EmailVerificationToken  *string    `json:"-" db:"email_verification_token"`
	EmailVerificationSentAt *time.Time `json:"-" db:"email_verification_sent_at"`
	EmailOTP                *string    `json:"-" db:"email_otp"`
	EmailOTPCreatedAt       *time.Time `json:"-" db:"email_otp_created_at"`
	EmailOTPVerified        bool       `json:"-" db:"email_otp_verified"`
	PasswordResetToken      *string    `json:"-" db:"password_reset_token"`
	PasswordResetSentAt     *time.Time `json:"-" db:"password_reset_sent_at"`
	CreatedBy               *uuid.UUID `json:"created_by" db:"created_by"`
	DateJoined              time.Time  `json:"date_joined" db:"date_joined"`
	LastLogin               *time.Time `json:"last_login" db:"last_login"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at" db:"updated_at"`
}

// NormalizeEmail lower-cases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsMasterAdmin() bool    { return u.Role.IsMasterAdmin() }
func (u *User) IsTenantOwner() bool    { return u.Role.IsTenantOwner() }
func (u *User) CanCreateMembers() bool { return u.Role.CanCreateMembers() }

// SameTenant reports whether tenantID equals the user's tenant. Two nil
// tenants are the same scope.
func (u *User) SameTenant(tenantID *uuid.UUID) bool {
	if u.TenantID == nil || tenantID == nil {
		return u.TenantID == nil && tenantID == nil
	}
	return *u.TenantID == *tenantID
}

// SetRole applies the custom role rule: the name is kept only for RoleCustom
func (u *User) SetRole(role Role, customName *string) {
	u.Role = role
	if role != RoleCustom || customName == nil {
		u.CustomRoleName = nil
		return
	}
	name := strings.TrimSpace(*customName)
	u.CustomRoleName = &name
}

// SetOTP stores a new pending OTP and resets the verified flag
func (u *User) SetOTP(code string, now time.Time) {
	u.EmailOTP = &code
	u.EmailOTPCreatedAt = &now
	u.EmailOTPVerified = false
}

func (u *User) ClearOTP(verified bool) {
	u.EmailOTP = nil
	u.EmailOTPCreatedAt = nil
	u.EmailOTPVerified = verified
}

func (u *User) OTPExpired(now time.Time) bool {
	return expired(u.EmailOTPCreatedAt, OTPTTL, now)
}

func (u *User) SetVerificationToken(token string, now time.Time) {
	u.EmailVerificationToken = &token
	u.EmailVerificationSentAt = &now
}

func (u *User) VerificationExpired(now time.Time) bool {
	return expired(u.EmailVerificationSentAt, VerificationTTL, now)
}

// MarkEmailVerified clears the verification token
func (u *User) MarkEmailVerified() {
	u.EmailVerified = true
	u.EmailVerificationToken = nil
	u.EmailVerificationSentAt = nil
}

func (u *User) SetPasswordResetToken(token string, now time.Time) {
	u.PasswordResetToken = &token
	u.PasswordResetSentAt = &now
}

func (u *User) PasswordResetExpired(now time.Time) bool {
	return expired(u.PasswordResetSentAt, PasswordResetTTL, now)
}

func (u *User) ClearPasswordResetToken() {
	u.PasswordResetToken = nil
	u.PasswordResetSentAt = nil
}

// A secret without a timestamp never expires, matching rows written before
// timestamps were recorded.
func expired(sentAt *time.Time, ttl time.Duration, now time.Time) bool {
	if sentAt == nil {
		return false
	}
	return now.Sub(*sentAt) > ttl
}
