// Package memory implements repository.Store in process memory. Transactions
// are serialized by a store-wide lock and applied to a copy of the data that
// replaces the live state on commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type state struct {
	tenants     map[uuid.UUID]domain.Tenant
	users       map[uuid.UUID]domain.User
	permissions map[uuid.UUID]domain.Permission
	grants      map[uuid.UUID]domain.Grant
	sessions    map[uuid.UUID]domain.Session
	history     []domain.LoginHistory
	buyers      map[uuid.UUID]domain.BuyerCode
	vendors     map[uuid.UUID]domain.VendorCode
	departments map[uuid.UUID]domain.Department
	segments    map[uuid.UUID]domain.Segment
}

func newState() *state {
	return &state{
		tenants:     make(map[uuid.UUID]domain.Tenant),
		users:       make(map[uuid.UUID]domain.User),
		permissions: make(map[uuid.UUID]domain.Permission),
		grants:      make(map[uuid.UUID]domain.Grant),
		sessions:    make(map[uuid.UUID]domain.Session),
		buyers:      make(map[uuid.UUID]domain.BuyerCode),
		vendors:     make(map[uuid.UUID]domain.VendorCode),
		departments: make(map[uuid.UUID]domain.Department),
		segments:    make(map[uuid.UUID]domain.Segment),
	}
}

func (s *state) clone() *state {
	return &state{
		tenants:     maps.Clone(s.tenants),
		users:       maps.Clone(s.users),
		permissions: maps.Clone(s.permissions),
		grants:      maps.Clone(s.grants),
		sessions:    maps.Clone(s.sessions),
		history:     slices.Clone(s.history),
		buyers:      maps.Clone(s.buyers),
		vendors:     maps.Clone(s.vendors),
		departments: maps.Clone(s.departments),
		segments:    maps.Clone(s.segments),
	}
}

// Store is an in-memory repository.Store
type Store struct {
	mu   sync.Mutex
	data *state
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newState()}
}

// conn routes repository calls either to a transaction's working copy or,
// taking the store lock per call, to the live state
type conn struct {
	store *Store
	tx    *state
}

func (c conn) do(fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return fn(c.store.data)
}

func newRepositories(c conn) repository.Repositories {
	return repository.Repositories{
		Tenants:      &tenantRepository{c},
		Users:        &userRepository{c},
		Permissions:  &permissionRepository{c},
		Grants:       &grantRepository{c},
		Sessions:     &sessionRepository{c},
		LoginHistory: &loginHistoryRepository{c},
		Codes:        &codeRepository{c},
		Departments:  &departmentRepository{c},
	}
}

func (s *Store) Repos() repository.Repositories {
	return newRepositories(conn{store: s})
}

// WithTx holds the store lock for the whole of fn. Changes become visible
// only when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(newRepositories(conn{store: s, tx: working})); err != nil {
		return err
	}
	s.data = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// inScope reports whether a row owned by tenantID is visible in scope
func inScope(scope repository.Scope, tenantID *uuid.UUID) bool {
	if scope.All {
		return true
	}
	if tenantID == nil {
		return scope.TenantID == nil || scope.IncludeShared
	}
	return scope.TenantID != nil && *scope.TenantID == *tenantID
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
