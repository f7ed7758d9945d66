package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/google/uuid"
)

type TenantService struct {
	store repository.Store
	log   *logger.Logger
	now   Clock
}

type CreateTenantRequest struct {
	CompanyName         string      `json:"company_name" validate:"required,max=255"`
	CompanyEmail        string      `json:"company_email" validate:"omitempty,email"`
	Phone               string      `json:"phone" validate:"omitempty,max=20"`
	Address             string      `json:"address"`
	UserLimit           *int        `json:"user_limit"`
	Plan                domain.Plan `json:"plan" validate:"omitempty,plan"`
	SubscriptionEndDate *time.Time  `json:"subscription_end_date"`
}

// UpdateTenantRequest is a partial update; nil fields are left untouched.
// UserLimit, Plan, IsActive and SubscriptionEndDate are master admin fields.
type UpdateTenantRequest struct {
	CompanyName         *string      `json:"company_name" validate:"omitempty,min=1,max=255"`
	CompanyEmail        *string      `json:"company_email" validate:"omitempty,email"`
	Phone               *string      `json:"phone" validate:"omitempty,max=20"`
	Address             *string      `json:"address"`
	UserLimit           *int         `json:"user_limit"`
	Plan                *domain.Plan `json:"plan" validate:"omitempty,plan"`
	IsActive            *bool        `json:"is_active"`
	SubscriptionEndDate *time.Time   `json:"subscription_end_date"`
}

type SetUserLimitRequest struct {
	UserLimit *int         `json:"user_limit" validate:"required"`
	Plan      *domain.Plan `json:"plan" validate:"omitempty,plan"`
}

func NewTenantService(store repository.Store, log *logger.Logger) *TenantService {
	return &TenantService{store: store, log: log.Named("tenant"), now: time.Now}
}

func (s *TenantService) SetClock(now Clock) { s.now = now }

// Create registers a tenant with an empty user count. Master admin only.
func (s *TenantService) Create(ctx context.Context, actor *domain.User, req CreateTenantRequest) (*domain.Tenant, error) {
	if !actor.IsMasterAdmin() {
		return nil, domain.ErrPermissionDenied()
	}

	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return nil, domain.ErrFieldValidation("company_name", "company_name is required")
	}
	limit := domain.DefaultUserLimit
	if req.UserLimit != nil {
		limit = *req.UserLimit
	}
	if !domain.ValidUserLimit(limit) {
		return nil, domain.ErrInvalidRange()
	}
	plan := req.Plan
	if plan == "" {
		plan = domain.PlanStandard
	}
	if !plan.Valid() {
		return nil, domain.ErrFieldValidation("plan", "plan must be a valid plan")
	}

	now := s.now()
	tenant := &domain.Tenant{
		ID:                    uuid.New(),
		CompanyName:           name,
		CompanyEmail:          domain.NormalizeEmail(req.CompanyEmail),
		Phone:                 req.Phone,
		Address:               req.Address,
		UserLimit:             limit,
		Plan:                  plan,
		IsActive:              true,
		SubscriptionStartDate: now,
		SubscriptionEndDate:   req.SubscriptionEndDate,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		exists, err := r.Tenants.ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateName()
		}
		return r.Tenants.Create(ctx, tenant)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, domain.ErrDuplicateName()
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("tenant_id", tenant.ID.String()).Str("company_name", name).Int("user_limit", limit).Msg("tenant created")
	return tenant, nil
}

// List: master admins see every tenant, tenant owners their own, others none
func (s *TenantService) List(ctx context.Context, actor *domain.User) ([]*domain.Tenant, error) {
	switch {
	case actor.IsMasterAdmin():
		return s.store.Repos().Tenants.List(ctx, repository.Scope{All: true})
	case actor.IsTenantOwner() && actor.TenantID != nil:
		return s.store.Repos().Tenants.List(ctx, repository.Scope{TenantID: actor.TenantID})
	}
	return []*domain.Tenant{}, nil
}

func (s *TenantService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Tenant, error) {
	if !actor.IsMasterAdmin() && !actor.SameTenant(&id) {
		return nil, domain.ErrNotFound("Tenant")
	}
	tenant, err := s.store.Repos().Tenants.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Tenant")
	}
	return tenant, nil
}

// Update applies a partial update. Tenant owners may change contact fields of
// their own tenant only.
func (s *TenantService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateTenantRequest) (*domain.Tenant, error) {
	switch {
	case actor.IsMasterAdmin():
	case actor.IsTenantOwner() && actor.SameTenant(&id):
		if field := masterOnlyField(req); field != "" {
			return nil, domain.ErrPermissionDeniedMsg(fmt.Sprintf("Only master admin can change %s", field))
		}
	default:
		return nil, domain.ErrPermissionDenied()
	}

	if req.UserLimit != nil && !domain.ValidUserLimit(*req.UserLimit) {
		return nil, domain.ErrInvalidRange()
	}
	if req.CompanyName != nil && strings.TrimSpace(*req.CompanyName) == "" {
		return nil, domain.ErrFieldValidation("company_name", "company_name may not be blank")
	}

	var updated *domain.Tenant
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		tenant, err := r.Tenants.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Tenant")
		}

		if req.CompanyName != nil {
			tenant.CompanyName = strings.TrimSpace(*req.CompanyName)
		}
		if req.CompanyEmail != nil {
			tenant.CompanyEmail = domain.NormalizeEmail(*req.CompanyEmail)
		}
		if req.Phone != nil {
			tenant.Phone = *req.Phone
		}
		if req.Address != nil {
			tenant.Address = *req.Address
		}
		if req.UserLimit != nil {
			if *req.UserLimit < tenant.CurrentUserCount {
				return domain.ErrLimitBelowUsage(tenant.CurrentUserCount)
			}
			tenant.UserLimit = *req.UserLimit
		}
		if req.Plan != nil {
			tenant.Plan = *req.Plan
		}
		if req.IsActive != nil {
			tenant.IsActive = *req.IsActive
		}
		if req.SubscriptionEndDate != nil {
			tenant.SubscriptionEndDate = req.SubscriptionEndDate
		}
		tenant.UpdatedAt = s.now()

		if err := r.Tenants.Update(ctx, tenant); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateName()
			}
			return err
		}
		updated = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func masterOnlyField(req UpdateTenantRequest) string {
	switch {
	case req.UserLimit != nil:
		return "user_limit"
	case req.Plan != nil:
		return "plan"
	case req.IsActive != nil:
		return "is_active"
	case req.SubscriptionEndDate != nil:
		return "subscription_end_date"
	}
	return ""
}

// SetUserLimit changes the quota under the tenant row lock. Master admin only.
func (s *TenantService) SetUserLimit(ctx context.Context, actor *domain.User, id uuid.UUID, req SetUserLimitRequest) (*domain.Tenant, error) {
	if !actor.IsMasterAdmin() {
		return nil, domain.ErrPermissionDeniedMsg("Only master admin can update user limits")
	}
	if req.UserLimit == nil {
		return nil, domain.ErrFieldValidation("user_limit", "user_limit is required")
	}
	if !domain.ValidUserLimit(*req.UserLimit) {
		return nil, domain.ErrInvalidRange()
	}
	if req.Plan != nil && !req.Plan.Valid() {
		return nil, domain.ErrFieldValidation("plan", "plan must be a valid plan")
	}

	var updated *domain.Tenant
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		tenant, err := r.Tenants.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Tenant")
		}
		if *req.UserLimit < tenant.CurrentUserCount {
			return domain.ErrLimitBelowUsage(tenant.CurrentUserCount)
		}
		tenant.UserLimit = *req.UserLimit
		if req.Plan != nil {
			tenant.Plan = *req.Plan
		}
		tenant.UpdatedAt = s.now()
		if err := r.Tenants.Update(ctx, tenant); err != nil {
			return err
		}
		updated = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("tenant_id", id.String()).Int("user_limit", updated.UserLimit).Msg("tenant user limit updated")
	return updated, nil
}
