package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/pkg/hash"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/google/uuid"
)

// MemberService manages the users of a tenant and the tenant's user counter
type MemberService struct {
	store  repository.Store
	hasher *hash.Hasher
	log    *logger.Logger
	now    Clock
}

type CreateMemberRequest struct {
	Email          string      `json:"email" validate:"required,email"`
	Password       string      `json:"password" validate:"required,min=8"`
	FirstName      string      `json:"first_name" validate:"max=150"`
	LastName       string      `json:"last_name" validate:"max=150"`
	Phone          string      `json:"phone" validate:"omitempty,max=20"`
	Role           domain.Role `json:"role" validate:"required,role"`
	Designation    string      `json:"designation" validate:"max=100"`
	CustomRoleName *string     `json:"custom_role_name" validate:"omitempty,max=100"`
	// TenantID is honored only for master admins without a tenant of their own
	TenantID    *uuid.UUID  `json:"tenant_id"`
	Permissions []uuid.UUID `json:"permissions"`
}

type UpdateMemberRequest struct {
	FirstName      *string      `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string      `json:"last_name" validate:"omitempty,max=150"`
	Phone          *string      `json:"phone" validate:"omitempty,max=20"`
	Designation    *string      `json:"designation" validate:"omitempty,max=100"`
	Role           *domain.Role `json:"role" validate:"omitempty,role"`
	CustomRoleName *string      `json:"custom_role_name" validate:"omitempty,max=100"`
	IsActive       *bool        `json:"is_active"`
}

func NewMemberService(store repository.Store, hasher *hash.Hasher, log *logger.Logger) *MemberService {
	return &MemberService{store: store, hasher: hasher, log: log.Named("member"), now: time.Now}
}

func (s *MemberService) SetClock(now Clock) { s.now = now }

// checkRole applies the role assignment rules for actor
func checkRole(actor *domain.User, role domain.Role, customName *string) error {
	if !role.Valid() {
		return domain.ErrFieldValidation("role", "role must be a valid role")
	}
	if role.IsMasterAdmin() && !actor.IsMasterAdmin() {
		return domain.ErrPermissionDeniedMsg("Only master admin can assign the master_admin role")
	}
	if role == domain.RoleCustom && (customName == nil || strings.TrimSpace(*customName) == "") {
		return domain.ErrFieldValidation("custom_role_name", "custom_role_name is required when role is custom")
	}
	return nil
}

// Create adds a member to the actor's tenant, consuming one seat, and grants
// the listed permissions. Unknown permission ids are skipped.
func (s *MemberService) Create(ctx context.Context, actor *domain.User, req CreateMemberRequest) (*UserDTO, error) {
	if !actor.CanCreateMembers() {
		return nil, domain.ErrPermissionDeniedMsg("You do not have permission to create members")
	}
	if err := checkRole(actor, req.Role, req.CustomRoleName); err != nil {
		return nil, err
	}
	if len(req.Password) < 8 {
		return nil, domain.ErrFieldValidation("password", "password must be at least 8 characters")
	}

	tenantID := actor.TenantID
	if tenantID == nil && actor.IsMasterAdmin() {
		tenantID = req.TenantID
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	member := &domain.User{
		ID:            uuid.New(),
		Email:         domain.NormalizeEmail(req.Email),
		PasswordHash:  passwordHash,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         req.Phone,
		Designation:   req.Designation,
		TenantID:      tenantID,
		IsActive:      true,
		EmailVerified: true,
		CreatedBy:     &actor.ID,
		DateJoined:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	member.SetRole(req.Role, req.CustomRoleName)

	var dto *UserDTO
	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Users.GetByEmail(ctx, member.Email); err == nil {
			return domain.ErrDuplicateEmail()
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if tenantID != nil {
			tenant, err := r.Tenants.GetByIDForUpdate(ctx, *tenantID)
			if err != nil {
				return notFound(err, "Tenant")
			}
			if !tenant.IncrementUserCount() {
				return domain.ErrTenantFull(tenant.UserLimit)
			}
			tenant.UpdatedAt = now
			if err := r.Tenants.Update(ctx, tenant); err != nil {
				return err
			}
		}

		if err := r.Users.Create(ctx, member); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateEmail()
			}
			return err
		}

		if len(req.Permissions) > 0 {
			permissions, err := r.Permissions.GetByIDs(ctx, req.Permissions)
			if err != nil {
				return err
			}
			for _, p := range permissions {
				grant := &domain.Grant{
					ID:           uuid.New(),
					UserID:       member.ID,
					PermissionID: p.ID,
					IsEnabled:    true,
					GrantedBy:    &actor.ID,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := r.Grants.Upsert(ctx, grant); err != nil {
					return err
				}
			}
		}

		var err error
		dto, err = loadUserDTO(ctx, r, member)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("actor_id", actor.ID.String()).
		Str("user_id", member.ID.String()).
		Str("role", member.Role.String()).
		Int("permissions", len(dto.Permissions)).
		Msg("member created")
	return dto, nil
}

// List returns every user for master admins, the tenant's users for tenant
// owners and only the caller otherwise
func (s *MemberService) List(ctx context.Context, actor *domain.User) ([]*UserDTO, error) {
	repos := s.store.Repos()

	var users []*domain.User
	switch {
	case actor.IsMasterAdmin():
		all, err := repos.Users.List(ctx, repository.Scope{All: true})
		if err != nil {
			return nil, err
		}
		users = all
	case actor.IsTenantOwner() && actor.TenantID != nil:
		members, err := repos.Users.List(ctx, repository.Scope{TenantID: actor.TenantID})
		if err != nil {
			return nil, err
		}
		users = members
	default:
		self, err := repos.Users.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, notFound(err, "User")
		}
		users = []*domain.User{self}
	}

	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		dto, err := loadUserDTO(ctx, repos, u)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *MemberService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*UserDTO, error) {
	repos := s.store.Repos()
	member, err := visibleMember(ctx, repos.Users, actor, id, false)
	if err != nil {
		return nil, err
	}
	return loadUserDTO(ctx, repos, member)
}

// Update changes profile fields. Role and activation changes need member
// management rights; activation goes through the tenant counter.
func (s *MemberService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateMemberRequest) (*UserDTO, error) {
	privileged := req.Role != nil || req.CustomRoleName != nil || req.IsActive != nil
	if privileged && !actor.CanCreateMembers() {
		return nil, domain.ErrPermissionDeniedMsg("You do not have permission to change roles or activation")
	}
	if req.IsActive != nil && !*req.IsActive && actor.ID == id {
		return nil, domain.ErrSelfDeactivation()
	}

	var dto *UserDTO
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		member, err := visibleMember(ctx, r.Users, actor, id, true)
		if err != nil {
			return err
		}

		if req.Role != nil || req.CustomRoleName != nil {
			role := member.Role
			if req.Role != nil {
				role = *req.Role
			}
			name := member.CustomRoleName
			if req.CustomRoleName != nil {
				name = req.CustomRoleName
			}
			if member.IsMasterAdmin() && !actor.IsMasterAdmin() {
				return domain.ErrPermissionDeniedMsg("Only master admin can change a master admin")
			}
			if err := checkRole(actor, role, name); err != nil {
				return err
			}
			member.SetRole(role, name)
		}

		if req.FirstName != nil {
			member.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			member.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Phone != nil {
			member.Phone = *req.Phone
		}
		if req.Designation != nil {
			member.Designation = *req.Designation
		}

		now := s.now()
		if req.IsActive != nil && *req.IsActive != member.IsActive {
			if err := s.adjustSeat(ctx, r, member, *req.IsActive, now); err != nil {
				return err
			}
			member.IsActive = *req.IsActive
		}

		member.UpdatedAt = now
		if err := r.Users.Update(ctx, member); err != nil {
			return err
		}

		dto, err = loadUserDTO(ctx, r, member)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Deactivate marks the member inactive and frees their seat. Deactivating an
// inactive member changes nothing.
func (s *MemberService) Deactivate(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if actor.ID == id {
		return domain.ErrSelfDeactivation()
	}

	changed := false
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		member, err := visibleMember(ctx, r.Users, actor, id, true)
		if err != nil {
			return err
		}
		if !actor.CanCreateMembers() {
			return domain.ErrPermissionDenied()
		}
		if !member.IsActive {
			return nil
		}

		now := s.now()
		if err := s.adjustSeat(ctx, r, member, false, now); err != nil {
			return err
		}
		member.IsActive = false
		member.UpdatedAt = now
		changed = true
		return r.Users.Update(ctx, member)
	})
	if err != nil {
		return err
	}

	if changed {
		s.log.Info().Str("actor_id", actor.ID.String()).Str("user_id", id.String()).Msg("member deactivated")
	}
	return nil
}

// adjustSeat takes or frees one seat of member's tenant under the tenant row lock
func (s *MemberService) adjustSeat(ctx context.Context, r repository.Repositories, member *domain.User, activate bool, now time.Time) error {
	if member.TenantID == nil {
		return nil
	}
	tenant, err := r.Tenants.GetByIDForUpdate(ctx, *member.TenantID)
	if err != nil {
		return notFound(err, "Tenant")
	}
	if activate {
		if !tenant.IncrementUserCount() {
			return domain.ErrTenantFull(tenant.UserLimit)
		}
	} else {
		tenant.DecrementUserCount()
	}
	tenant.UpdatedAt = now
	return r.Tenants.Update(ctx, tenant)
}
