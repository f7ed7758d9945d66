package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository/memory"
	"github.com/Developershubh00/Binder-backend/pkg/blacklist"
	"github.com/Developershubh00/Binder-backend/pkg/email"
	"github.com/Developershubh00/Binder-backend/pkg/errx"
	"github.com/Developershubh00/Binder-backend/pkg/hash"
	"github.com/Developershubh00/Binder-backend/pkg/jwt"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/Developershubh00/Binder-backend/pkg/metrics"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "s3cret-pass"

var signingKey = sync.OnceValue(func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
})

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// recordingSender keeps every message and fails while err is set
type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type testEnv struct {
	ctx     context.Context
	store   *memory.Store
	clock   *testClock
	sender  *recordingSender
	redis   *miniredis.Miniredis
	metrics *metrics.Metrics
	hasher  *hash.Hasher

	auth        *AuthService
	users       *UserService
	members     *MemberService
	tenants     *TenantService
	permissions *PermissionService
	sheets      *MasterSheetService
	gate        *Gate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	log := logger.Nop()
	m := metrics.New("test")
	store := memory.NewStore()
	sender := &recordingSender{}
	hasher := hash.NewHasher(hash.Params{Memory: 1024, Iterations: 1, Parallelism: 1})

	tokens := jwt.NewTokenServiceWithKey(signingKey(), time.Hour, 7*24*time.Hour, "binder-test").WithClock(clock.Now)
	bl := blacklist.NewTokenBlacklist(client).WithClock(clock.Now)
	notifier := NewNotifier(sender, NotifierConfig{
		VerificationURL: "http://app.test/verify-email",
		SetPasswordURL:  "http://app.test/set-password",
	}, log, m)

	env := &testEnv{
		ctx:         context.Background(),
		store:       store,
		clock:       clock,
		sender:      sender,
		redis:       mr,
		metrics:     m,
		hasher:      hasher,
		auth:        NewAuthService(store, hasher, tokens, bl, notifier, m, log),
		users:       NewUserService(store, hasher, notifier, bl, 7*24*time.Hour, log),
		members:     NewMemberService(store, hasher, log),
		tenants:     NewTenantService(store, log),
		permissions: NewPermissionService(store, log),
		sheets:      NewMasterSheetService(store, 3, m, log),
		gate:        NewGate(store),
	}
	env.auth.SetClock(clock.Now)
	env.users.SetClock(clock.Now)
	env.members.SetClock(clock.Now)
	env.tenants.SetClock(clock.Now)
	env.permissions.SetClock(clock.Now)
	env.sheets.SetClock(clock.Now)

	_, err := env.permissions.Seed(env.ctx)
	require.NoError(t, err)
	return env
}

// masterAdmin stores a tenant-less master admin
func (e *testEnv) masterAdmin(t *testing.T) *domain.User {
	t.Helper()
	admin, err := e.users.CreateMasterAdmin(e.ctx, CreateMasterAdminRequest{
		Email:     "root@binder.test",
		Password:  testPassword,
		FirstName: "Root",
		LastName:  "Admin",
	})
	require.NoError(t, err)
	return admin
}

func (e *testEnv) tenant(t *testing.T, admin *domain.User, name string, limit int) *domain.Tenant {
	t.Helper()
	tenant, err := e.tenants.Create(e.ctx, admin, CreateTenantRequest{CompanyName: name, UserLimit: &limit})
	require.NoError(t, err)
	return tenant
}

// member creates a user through MemberService and returns the stored row
func (e *testEnv) member(t *testing.T, actor *domain.User, emailAddr string, role domain.Role, tenantID *uuid.UUID) *domain.User {
	t.Helper()
	dto, err := e.members.Create(e.ctx, actor, CreateMemberRequest{
		Email:     emailAddr,
		Password:  testPassword,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		TenantID:  tenantID,
	})
	require.NoError(t, err)
	return e.reload(t, dto.ID)
}

func (e *testEnv) reload(t *testing.T, id uuid.UUID) *domain.User {
	t.Helper()
	user, err := e.store.Repos().Users.GetByID(e.ctx, id)
	require.NoError(t, err)
	return user
}

func (e *testEnv) reloadTenant(t *testing.T, id uuid.UUID) *domain.Tenant {
	t.Helper()
	tenant, err := e.store.Repos().Tenants.GetByID(e.ctx, id)
	require.NoError(t, err)
	return tenant
}

func (e *testEnv) catalogID(t *testing.T, key domain.PermissionKey) uuid.UUID {
	t.Helper()
	all, err := e.store.Repos().Permissions.List(e.ctx)
	require.NoError(t, err)
	for _, p := range all {
		if p.Key() == key {
			return p.ID
		}
	}
	t.Fatalf("permission %v not in catalog", key)
	return uuid.Nil
}

func ptrTo[T any](v T) *T { return &v }

func assertCode(t *testing.T, err error, code *errx.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Truef(t, errx.HasCode(err, code), "want %s, got %v", code.Code, err)
}

func TestNotFound_MapsRepositorySentinel(t *testing.T) {
	err := notFound(errors.New("wrapped"), "User")
	assert.EqualError(t, err, "wrapped")

	env := newTestEnv(t)
	_, err = env.store.Repos().Users.GetByID(env.ctx, uuid.New())
	assertCode(t, notFound(err, "User"), domain.CodeNotFound)
}
