package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewTokenServiceWithKey(key, 15*time.Minute, 24*time.Hour, "binder-test")
}

func testUser() *domain.User {
	tenantID := uuid.New()
	return &domain.User{
		ID:       uuid.New(),
		Email:    "owner@acme.test",
		Role:     domain.RoleTenantOwner,
		TenantID: &tenantID,
	}
}

func TestGenerateTokenPair_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	user := testUser()
	sessionID := uuid.New()

	pair, err := svc.GenerateTokenPair(user, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateTokenType(pair.Access, domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleTenantOwner, claims.Role)
	assert.Equal(t, *user.TenantID, *claims.TenantID)
	assert.Equal(t, sessionID, *claims.SessionID)

	refresh, err := svc.ValidateTokenType(pair.Refresh, domain.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Empty(t, refresh.Email)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestValidateTokenType_WrongType(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.GenerateTokenPair(testUser(), uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateTokenType(pair.Refresh, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(t)
	now := time.Now()
	svc.WithClock(func() time.Time { return now })

	pair, err := svc.GenerateTokenPair(testUser(), uuid.New())
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = svc.ValidateToken(pair.Access)
	assert.Error(t, err)

	_, err = svc.ValidateToken(pair.Refresh)
	assert.NoError(t, err)
}

func TestValidateToken_ForeignKey(t *testing.T) {
	issuer := newTestService(t)
	verifier := newTestService(t)

	pair, err := issuer.GenerateTokenPair(testUser(), uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(pair.Access)
	assert.Error(t, err)
}

func TestGenerateTokenPair_SetsKeyID(t *testing.T) {
	svc := newTestService(t)
	require.NotEmpty(t, svc.KeyID())

	pair, err := svc.GenerateTokenPair(testUser(), uuid.New())
	require.NoError(t, err)

	token, _, err := jwtlib.NewParser().ParseUnverified(pair.Access, &domain.Claims{})
	require.NoError(t, err)
	assert.Equal(t, svc.KeyID(), token.Header["kid"])
}

func TestGenerateTokenPair_MillisecondIssueTime(t *testing.T) {
	svc := newTestService(t)
	now := time.Now().Truncate(time.Second).Add(420 * time.Millisecond)
	svc.WithClock(func() time.Time { return now })

	pair, err := svc.GenerateTokenPair(testUser(), uuid.New())
	require.NoError(t, err)

	for _, token := range []string{pair.Access, pair.Refresh} {
		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, now.Truncate(time.Second).Unix(), claims.IssuedAt.Unix())

		issuedAt, ok := claims.IssuedAtTime()
		require.True(t, ok)
		assert.Equal(t, now.UnixMilli(), issuedAt.UnixMilli())
	}
}
