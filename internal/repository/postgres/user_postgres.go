package postgres

import (
	"context"
	"fmt"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone, designation,
		role, custom_role_name, tenant_id, is_active, email_verified,
		email_verification_token, email_verification_sent_at,
		email_otp, email_otp_created_at, email_otp_verified,
		password_reset_token, password_reset_sent_at,
		created_by, date_joined, last_login, created_at, updated_at`

type userRepository struct {
	db sqlx.ExtContext
}

// Create inserts a new user. A taken email yields repository.ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `) VALUES (
			:id, :email, :password_hash, :first_name, :last_name, :phone, :designation,
			:role, :custom_role_name, :tenant_id, :is_active, :email_verified,
			:email_verification_token, :email_verification_sent_at,
			:email_otp, :email_otp_created_at, :email_otp_verified,
			:password_reset_token, :password_reset_sent_at,
			:created_by, :date_joined, :last_login, :created_at, :updated_at
		)`

	return execNamed(ctx, r.db, "user", query, user, false)
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if err := getOne(ctx, r.db, &user, "user", query, arg); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, "id = $1 FOR UPDATE", id)
}

// GetByEmail expects an already normalized email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *userRepository) GetByEmailForUpdate(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "email = $1 FOR UPDATE", email)
}

func (r *userRepository) GetByVerificationTokenForUpdate(ctx context.Context, token string) (*domain.User, error) {
	return r.get(ctx, "email_verification_token = $1 FOR UPDATE", token)
}

func (r *userRepository) GetByPasswordResetTokenForUpdate(ctx context.Context, token string) (*domain.User, error) {
	return r.get(ctx, "password_reset_token = $1 FOR UPDATE", token)
}

// List returns users visible in scope, newest first
func (r *userRepository) List(ctx context.Context, scope repository.Scope) ([]*domain.User, error) {
	where, args := scopeClause(scope, "tenant_id", nil)
	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY date_joined DESC`

	var users []*domain.User
	if err := sqlx.SelectContext(ctx, r.db, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update writes every mutable user column
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			email = :email,
			password_hash = :password_hash,
			first_name = :first_name,
			last_name = :last_name,
			phone = :phone,
			designation = :designation,
			role = :role,
			custom_role_name = :custom_role_name,
			tenant_id = :tenant_id,
			is_active = :is_active,
			email_verified = :email_verified,
			email_verification_token = :email_verification_token,
			email_verification_sent_at = :email_verification_sent_at,
			email_otp = :email_otp,
			email_otp_created_at = :email_otp_created_at,
			email_otp_verified = :email_otp_verified,
			password_reset_token = :password_reset_token,
			password_reset_sent_at = :password_reset_sent_at,
			last_login = :last_login,
			updated_at = :updated_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "user", query, user, true)
}

// LockRole takes a transaction-scoped advisory lock keyed on the role name
func (r *userRepository) LockRole(ctx context.Context, role domain.Role) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "role:"+string(role)); err != nil {
		return fmt.Errorf("failed to lock role %s: %w", role, err)
	}
	return nil
}

func (r *userRepository) ExistsWithRole(ctx context.Context, role domain.Role) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, role); err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return exists, nil
}
