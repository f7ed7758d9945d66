package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type userRepository struct{ conn }

func emailTaken(st *state, email string, except uuid.UUID) bool {
	for id, u := range st.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	return r.do(func(st *state) error {
		if emailTaken(st, user.Email, uuid.Nil) {
			return fmt.Errorf("user: %w", repository.ErrDuplicate)
		}
		st.users[user.ID] = *user
		return nil
	})
}

// find returns a copy of the first user matching pred
func (r *userRepository) find(pred func(u *domain.User) bool) (*domain.User, error) {
	var found *domain.User
	err := r.do(func(st *state) error {
		for _, u := range st.users {
			if pred(&u) {
				found = &u
				return nil
			}
		}
		return fmt.Errorf("user not found: %w", repository.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *userRepository) GetByEmailForUpdate(ctx context.Context, email string) (*domain.User, error) {
	return r.GetByEmail(ctx, email)
}

func (r *userRepository) GetByVerificationTokenForUpdate(_ context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.EmailVerificationToken != nil && *u.EmailVerificationToken == token
	})
}

func (r *userRepository) GetByPasswordResetTokenForUpdate(_ context.Context, token string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool {
		return u.PasswordResetToken != nil && *u.PasswordResetToken == token
	})
}

func (r *userRepository) List(_ context.Context, scope repository.Scope) ([]*domain.User, error) {
	var users []*domain.User
	err := r.do(func(st *state) error {
		for _, u := range st.users {
			if inScope(scope, u.TenantID) {
				users = append(users, &u)
			}
		}
		return nil
	})
	sort.Slice(users, func(i, j int) bool { return users[i].DateJoined.After(users[j].DateJoined) })
	return users, err
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	return r.do(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return fmt.Errorf("user not found: %w", repository.ErrNotFound)
		}
		if emailTaken(st, user.Email, user.ID) {
			return fmt.Errorf("user: %w", repository.ErrDuplicate)
		}
		st.users[user.ID] = *user
		return nil
	})
}

// LockRole is a no-op: transactions already hold the store lock
func (r *userRepository) LockRole(context.Context, domain.Role) error {
	return nil
}

func (r *userRepository) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	var exists bool
	err := r.do(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}
