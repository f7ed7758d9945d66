package jwt

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
)

type TokenService struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	keyID         string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenService parses the PEM encoded RSA key pair used for RS256 signing
func NewTokenService(privateKeyPEM, publicKeyPEM []byte, accessExpiry, refreshExpiry time.Duration, issuer string) (*TokenService, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return newTokenService(privateKey, publicKey, accessExpiry, refreshExpiry, issuer), nil
}

// NewTokenServiceWithKey signs with key and verifies with its public half
func NewTokenServiceWithKey(key *rsa.PrivateKey, accessExpiry, refreshExpiry time.Duration, issuer string) *TokenService {
	return newTokenService(key, &key.PublicKey, accessExpiry, refreshExpiry, issuer)
}

func newTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, accessExpiry, refreshExpiry time.Duration, issuer string) *TokenService {
	return &TokenService{
		privateKey:    privateKey,
		publicKey:     publicKey,
		keyID:         keyID(publicKey),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		issuer:        issuer,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for issuing and validating tokens
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) RefreshExpiry() time.Duration { return s.refreshExpiry }

func (s *TokenService) PublicKey() *rsa.PublicKey { return s.publicKey }

// KeyID identifies the verification key in token headers and the JWKS
func (s *TokenService) KeyID() string { return s.keyID }

func keyID(key *rsa.PublicKey) string {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(sum[:12])
}

// GenerateTokenPair issues an access and a refresh token bound to sessionID
func (s *TokenService) GenerateTokenPair(user *domain.User, sessionID uuid.UUID) (*domain.TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.accessExpiry)
	refreshExp := now.Add(s.refreshExpiry)

	accessClaims := domain.Claims{
		RegisteredClaims: s.registered(user, now, accessExp),
		UserID:           user.ID,
		Email:            user.Email,
		Role:             user.Role,
		TenantID:         user.TenantID,
		SessionID:        &sessionID,
		TokenType:        domain.TokenTypeAccess,
		IssuedAtMs:       now.UnixMilli(),
	}
	access, err := s.sign(accessClaims)
	if err != nil {
		return nil, err
	}

	// Refresh token with fewer claims
	refreshClaims := domain.Claims{
		RegisteredClaims: s.registered(user, now, refreshExp),
		UserID:           user.ID,
		SessionID:        &sessionID,
		TokenType:        domain.TokenTypeRefresh,
		IssuedAtMs:       now.UnixMilli(),
	}
	refresh, err := s.sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		TokenType:        "Bearer",
	}, nil
}

func (s *TokenService) registered(user *domain.User, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
}

func (s *TokenService) sign(claims domain.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if s.keyID != "" {
		token.Header["kid"] = s.keyID
	}
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}
	return signed, nil
}

// ValidateToken verifies signature, issuer and expiry and returns the claims
func (s *TokenService) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return s.publicKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateTokenType validates the token and requires the given token type
func (s *TokenService) ValidateTokenType(tokenString, tokenType string) (*domain.Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
