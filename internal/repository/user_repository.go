package repository

import (
	"context"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmailForUpdate(ctx context.Context, email string) (*domain.User, error)

	// Token lookups lock the matched row
	GetByVerificationTokenForUpdate(ctx context.Context, token string) (*domain.User, error)
	GetByPasswordResetTokenForUpdate(ctx context.Context, token string) (*domain.User, error)

	List(ctx context.Context, scope Scope) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsWithRole(ctx context.Context, role domain.Role) (bool, error)
	// LockRole serializes role membership checks until the transaction ends
	LockRole(ctx context.Context, role domain.Role) error
}
