package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/pkg/blacklist"
	"github.com/Developershubh00/Binder-backend/pkg/hash"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/google/uuid"
)

// UserService covers self-service account flows: registration, email
// verification and password reset
type UserService struct {
	store     repository.Store
	hasher    *hash.Hasher
	notifier  *Notifier
	blacklist *blacklist.TokenBlacklist
	// tokenLifetime bounds how long a user-wide invalidation marker must live
	tokenLifetime time.Duration
	log           *logger.Logger
	now           Clock
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
}

type CreateMasterAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
}

type RegisterResponse struct {
	Email         string    `json:"email"`
	ID            uuid.UUID `json:"id"`
	EmailVerified bool      `json:"email_verified"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func NewUserService(
	store repository.Store,
	hasher *hash.Hasher,
	notifier *Notifier,
	tokenBlacklist *blacklist.TokenBlacklist,
	tokenLifetime time.Duration,
	log *logger.Logger,
) *UserService {
	return &UserService{
		store:         store,
		hasher:        hasher,
		notifier:      notifier,
		blacklist:     tokenBlacklist,
		tokenLifetime: tokenLifetime,
		log:           log.Named("user"),
		now:           time.Now,
	}
}

func (s *UserService) SetClock(now Clock) { s.now = now }

// Register creates a tenant-less employee account. Self-registered accounts
// are verified immediately.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, domain.ErrFieldValidation("password_confirm", "Passwords do not match")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:            uuid.New(),
		Email:         domain.NormalizeEmail(req.Email),
		PasswordHash:  passwordHash,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone:         req.Phone,
		Role:          domain.RoleEmployee,
		IsActive:      true,
		EmailVerified: true,
		DateJoined:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Users.GetByEmail(ctx, user.Email); err == nil {
			return domain.ErrDuplicateEmail()
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := r.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateEmail()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return &RegisterResponse{Email: user.Email, ID: user.ID, EmailVerified: user.EmailVerified}, nil
}

// VerifyEmail consumes a verification token
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	var verified *domain.User
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByVerificationTokenForUpdate(ctx, token)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenNotFound()
		}
		if err != nil {
			return err
		}
		if user.VerificationExpired(s.now()) {
			return domain.ErrTokenExpired()
		}
		user.MarkEmailVerified()
		user.UpdatedAt = s.now()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		verified = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return verified, nil
}

// IssueVerification stores a fresh verification token for user and sends it
func (s *UserService) IssueVerification(ctx context.Context, userID uuid.UUID) (Delivery, error) {
	token, err := newURLToken()
	if err != nil {
		return "", err
	}

	var user *domain.User
	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, "User")
		}
		u.SetVerificationToken(token, s.now())
		u.UpdatedAt = s.now()
		user = u
		return r.Users.Update(ctx, u)
	})
	if err != nil {
		return "", err
	}
	return s.notifier.Verification(ctx, user, token), nil
}

// ResendVerification re-issues the token for an unverified account. Unknown
// and already verified addresses succeed silently with an empty Delivery.
func (s *UserService) ResendVerification(ctx context.Context, email string) (Delivery, error) {
	user, err := s.store.Repos().Users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if user.EmailVerified {
		return "", nil
	}
	return s.IssueVerification(ctx, user.ID)
}

// RequestPasswordReset issues a reset token to an active account. Unknown
// addresses succeed silently with an empty Delivery.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (Delivery, error) {
	token, err := newURLToken()
	if err != nil {
		return "", err
	}

	var user *domain.User
	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByEmailForUpdate(ctx, domain.NormalizeEmail(email))
		if err != nil {
			return err
		}
		if !u.IsActive {
			return nil
		}
		u.SetPasswordResetToken(token, s.now())
		u.UpdatedAt = s.now()
		user = u
		return r.Users.Update(ctx, u)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return s.notifier.PasswordReset(ctx, user, token), nil
}

// SetPassword consumes a reset token, stores the new password and revokes
// every token and session the user held
func (s *UserService) SetPassword(ctx context.Context, req SetPasswordRequest) error {
	if req.Password != req.PasswordConfirm {
		return domain.ErrFieldValidation("password_confirm", "Passwords do not match")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	var userID uuid.UUID
	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByPasswordResetTokenForUpdate(ctx, req.Token)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTokenNotFound()
		}
		if err != nil {
			return err
		}
		if user.PasswordResetExpired(s.now()) {
			return domain.ErrTokenExpired()
		}

		user.PasswordHash = passwordHash
		user.ClearPasswordResetToken()
		user.EmailVerified = true
		user.UpdatedAt = s.now()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		if err := r.Sessions.DeleteByUserID(ctx, user.ID); err != nil {
			return err
		}
		userID = user.ID

		// Revocation must succeed for the new password to stick
		return s.blacklist.BlacklistUser(ctx, user.ID.String(), s.tokenLifetime)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID.String()).Msg("password set, previous tokens revoked")
	return nil
}

func (s *UserService) MasterAdminExists(ctx context.Context) (bool, error) {
	return s.store.Repos().Users.ExistsWithRole(ctx, domain.RoleMasterAdmin)
}

// CreateMasterAdmin bootstraps the first master admin. It fails once one exists.
// Concurrent calls queue on the role lock, so only the first one creates a row.
func (s *UserService) CreateMasterAdmin(ctx context.Context, req CreateMasterAdminRequest) (*domain.User, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	admin := &domain.User{
		ID:            uuid.New(),
		Email:         domain.NormalizeEmail(req.Email),
		PasswordHash:  passwordHash,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Role:          domain.RoleMasterAdmin,
		IsActive:      true,
		EmailVerified: true,
		DateJoined:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		if err := r.Users.LockRole(ctx, domain.RoleMasterAdmin); err != nil {
			return err
		}
		exists, err := r.Users.ExistsWithRole(ctx, domain.RoleMasterAdmin)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrPermissionDeniedMsg("Master admin already exists. This endpoint can only be used once.")
		}
		if err := r.Users.Create(ctx, admin); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateEmail()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", admin.ID.String()).Msg("master admin created")
	return admin, nil
}

// Me returns the caller's detail view
func (s *UserService) Me(ctx context.Context, user *domain.User) (*UserDTO, error) {
	return loadUserDTO(ctx, s.store.Repos(), user)
}
