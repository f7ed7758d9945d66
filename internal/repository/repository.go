package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// Scope restricts list queries to a tenant
type Scope struct {
	// All disables tenant filtering (master admin)
	All bool
	// TenantID is the tenant whose rows are visible; nil selects tenant-less rows
	TenantID *uuid.UUID
	// IncludeShared adds rows whose tenant is null
	IncludeShared bool
}

// Repositories is the set of repositories bound to one connection or transaction
type Repositories struct {
	Tenants      TenantRepository
	Users        UserRepository
	Permissions  PermissionRepository
	Grants       GrantRepository
	Sessions     SessionRepository
	LoginHistory LoginHistoryRepository
	Codes        CodeRepository
	Departments  DepartmentRepository
}

// Store hands out repositories and runs units of work in a transaction.
// fn's repositories are bound to the transaction; returning an error rolls it back.
type Store interface {
	Repos() Repositories
	WithTx(ctx context.Context, fn func(r Repositories) error) error
	Ping(ctx context.Context) error
}
