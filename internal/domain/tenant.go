package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is the tenant subscription plan
type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanStandard   Plan = "standard"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
	PlanCustom     Plan = "custom"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanStandard, PlanPremium, PlanEnterprise, PlanCustom:
		return true
	}
	return false
}

const (
	MinUserLimit     = 1
	MaxUserLimit     = 1000
	DefaultUserLimit = 40
)

// Tenant is a customer organization with a user quota.
// Invariant: 0 <= CurrentUserCount <= UserLimit.
type Tenant struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	CompanyName           string     `json:"company_name" db:"company_name"`
	CompanyEmail          string     `json:"company_email" db:"company_email"`
	Phone                 string     `json:"phone" db:"phone"`
	Address               string     `json:"address" db:"address"`
	UserLimit             int        `json:"user_limit" db:"user_limit"`
	CurrentUserCount      int        `json:"current_user_count" db:"current_user_count"`
	Plan                  Plan       `json:"plan" db:"plan"`
	IsActive              bool       `json:"is_active" db:"is_active"`
	SubscriptionStartDate time.Time  `json:"subscription_start_date" db:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date,omitempty" db:"subscription_end_date"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

func (t *Tenant) CanAddUsers() bool {
	return t.CurrentUserCount < t.UserLimit
}

func (t *Tenant) AvailableSlots() int {
	if t.CurrentUserCount >= t.UserLimit {
		return 0
	}
	return t.UserLimit - t.CurrentUserCount
}

// IncrementUserCount reports false when the quota is already used up
func (t *Tenant) IncrementUserCount() bool {
	if !t.CanAddUsers() {
		return false
	}
	t.CurrentUserCount++
	return true
}

// DecrementUserCount floors at zero
func (t *Tenant) DecrementUserCount() {
	if t.CurrentUserCount > 0 {
		t.CurrentUserCount--
	}
}

func ValidUserLimit(limit int) bool {
	return limit >= MinUserLimit && limit <= MaxUserLimit
}
