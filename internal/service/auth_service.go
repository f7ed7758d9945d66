package service

import (
	"context"
	"errors"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/pkg/blacklist"
	"github.com/Developershubh00/Binder-backend/pkg/hash"
	"github.com/Developershubh00/Binder-backend/pkg/jwt"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/Developershubh00/Binder-backend/pkg/metrics"
	"github.com/google/uuid"
)

const (
	loginMethodPassword = "password"
	loginMethodOTP      = "otp"
)

type AuthService struct {
	store          repository.Store
	hasher         *hash.Hasher
	tokenService   *jwt.TokenService
	tokenBlacklist *blacklist.TokenBlacklist
	notifier       *Notifier
	metrics        *metrics.Metrics
	log            *logger.Logger
	now            Clock
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// ClientInfo describes the caller of a login for the audit trail
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type LoginResponse struct {
	User   *UserDTO          `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

type OTPResponse struct {
	Email        string   `json:"email"`
	OTPExpiresIn int      `json:"otp_expires_in"`
	Delivery     Delivery `json:"delivery"`
}

func NewAuthService(
	store repository.Store,
	hasher *hash.Hasher,
	tokenService *jwt.TokenService,
	tokenBlacklist *blacklist.TokenBlacklist,
	notifier *Notifier,
	m *metrics.Metrics,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		hasher:         hasher,
		tokenService:   tokenService,
		tokenBlacklist: tokenBlacklist,
		notifier:       notifier,
		metrics:        m,
		log:            log.Named("auth"),
		now:            time.Now,
	}
}

func (s *AuthService) SetClock(now Clock) { s.now = now }

// checkCredentials returns the active user owning email and password.
// Unknown emails, wrong passwords and inactive accounts are indistinguishable.
func (s *AuthService) checkCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.store.Repos().Users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil || !ok || !user.IsActive {
		return nil, domain.ErrInvalidCredentials()
	}
	return user, nil
}

// Login authenticates with email and password and opens a session
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResponse, error) {
	user, err := s.checkCredentials(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.LoginCounter.WithLabelValues(loginMethodPassword, "failure").Inc()
		return nil, err
	}

	var resp *LoginResponse
	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		locked, err := r.Users.GetByIDForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		resp, err = s.openSession(ctx, r, locked, client)
		return err
	})
	if err != nil {
		s.metrics.LoginCounter.WithLabelValues(loginMethodPassword, "error").Inc()
		return nil, err
	}

	s.metrics.LoginCounter.WithLabelValues(loginMethodPassword, "success").Inc()
	s.log.Info().Str("user_id", user.ID.String()).Str("ip", client.IPAddress).Msg("user logged in")
	return resp, nil
}

// RequestOTP checks the credentials and emails a one time code
func (s *AuthService) RequestOTP(ctx context.Context, req LoginRequest) (*OTPResponse, error) {
	user, err := s.checkCredentials(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.LoginCounter.WithLabelValues(loginMethodOTP, "failure").Inc()
		return nil, err
	}

	code, err := newOTP()
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		locked, err := r.Users.GetByIDForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		locked.SetOTP(code, s.now())
		locked.UpdatedAt = s.now()
		user = locked
		return r.Users.Update(ctx, locked)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OTPRequestCounter.Inc()
	delivery := s.notifier.OTP(ctx, user, code)
	return &OTPResponse{
		Email:        user.Email,
		OTPExpiresIn: int(domain.OTPTTL / time.Second),
		Delivery:     delivery,
	}, nil
}

// VerifyOTP completes an OTP login. The code is checked and cleared under
// the user row lock so it can be used once.
func (s *AuthService) VerifyOTP(ctx context.Context, req VerifyOTPRequest, client ClientInfo) (*LoginResponse, error) {
	var resp *LoginResponse
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		user, err := r.Users.GetByEmailForUpdate(ctx, domain.NormalizeEmail(req.Email))
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrInvalidCredentials()
		}
		if err != nil {
			return err
		}
		if !user.EmailVerified || !user.IsActive {
			return domain.ErrInvalidCredentials()
		}

		if user.EmailOTP == nil {
			return domain.ErrNoOTPPending()
		}
		if user.OTPExpired(s.now()) {
			return domain.ErrOTPExpired()
		}
		if !otpMatches(*user.EmailOTP, req.OTP) {
			return domain.ErrOTPMismatch()
		}

		user.ClearOTP(true)
		resp, err = s.openSession(ctx, r, user, client)
		return err
	})
	if err != nil {
		s.metrics.LoginCounter.WithLabelValues(loginMethodOTP, "failure").Inc()
		return nil, err
	}

	s.metrics.LoginCounter.WithLabelValues(loginMethodOTP, "success").Inc()
	s.log.Info().Str("user_id", resp.User.ID.String()).Str("ip", client.IPAddress).Msg("user logged in with otp")
	return resp, nil
}

// openSession stamps last_login on the locked user, records the login and
// issues a token pair bound to a new session
func (s *AuthService) openSession(ctx context.Context, r repository.Repositories, user *domain.User, client ClientInfo) (*LoginResponse, error) {
	now := s.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := r.Users.Update(ctx, user); err != nil {
		return nil, err
	}

	entry := &domain.LoginHistory{
		ID:              uuid.New(),
		UserID:          user.ID,
		IPAddress:       client.IPAddress,
		UserAgent:       client.UserAgent,
		LoginSuccessful: true,
		LoginAt:         now,
	}
	if err := r.LoginHistory.Create(ctx, entry); err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	tokens, err := s.tokenService.GenerateTokenPair(user, sessionID)
	if err != nil {
		return nil, err
	}
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: hashToken(tokens.Refresh),
		UserAgent:        client.UserAgent,
		IPAddress:        client.IPAddress,
		ExpiresAt:        tokens.RefreshExpiresAt,
		CreatedAt:        now,
	}
	if err := r.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	dto, err := loadUserDTO(ctx, r, user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: dto, Tokens: tokens}, nil
}

// Refresh rotates a refresh token. The presented token is revoked, so each
// refresh token can be exchanged once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	tokens, err := s.refresh(ctx, refreshToken)
	if err != nil {
		s.metrics.TokenRefreshCounter.WithLabelValues("rejected").Inc()
		return nil, err
	}
	s.metrics.TokenRefreshCounter.WithLabelValues("success").Inc()
	return tokens, nil
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenService.ValidateTokenType(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized()
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	var tokens *domain.TokenPair
	err = s.store.WithTx(ctx, func(r repository.Repositories) error {
		session, err := r.Sessions.GetByTokenHashForUpdate(ctx, hashToken(refreshToken))
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUnauthorized()
		}
		if err != nil {
			return err
		}
		if s.now().After(session.ExpiresAt) {
			return domain.ErrUnauthorized()
		}

		user, err := r.Users.GetByID(ctx, session.UserID)
		if err != nil {
			return notFound(err, "User")
		}
		if !user.IsActive {
			return domain.ErrUnauthorized()
		}

		tokens, err = s.tokenService.GenerateTokenPair(user, session.ID)
		if err != nil {
			return err
		}
		session.RefreshTokenHash = hashToken(tokens.Refresh)
		session.ExpiresAt = tokens.RefreshExpiresAt
		return r.Sessions.Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil {
		if err := s.tokenBlacklist.AddUntil(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			s.log.Error().Err(err).Str("jti", claims.ID).Msg("failed to revoke rotated refresh token")
		}
	}
	return tokens, nil
}

// checkRevoked rejects blacklisted tokens and tokens issued before a user-wide
// invalidation
func (s *AuthService) checkRevoked(ctx context.Context, claims *domain.Claims) error {
	revoked, err := s.tokenBlacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return domain.ErrUnauthorized()
	}
	if issuedAt, ok := claims.IssuedAtTime(); ok {
		revoked, err = s.tokenBlacklist.IsUserBlacklisted(ctx, claims.UserID.String(), issuedAt)
		if err != nil {
			return err
		}
		if revoked {
			return domain.ErrUnauthorized()
		}
	}
	return nil
}

// Authenticate validates a bearer access token and loads its active user
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, *domain.Claims, error) {
	claims, err := s.tokenService.ValidateTokenType(accessToken, domain.TokenTypeAccess)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized()
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, nil, err
	}

	user, err := s.store.Repos().Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, domain.ErrUnauthorized()
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrUnauthorized()
	}
	return user, claims, nil
}

// Logout closes the newest open login record and revokes the access token.
// A refresh token, when given, must belong to user; its session is removed
// and the token revoked.
func (s *AuthService) Logout(ctx context.Context, user *domain.User, access *domain.Claims, refreshToken string) error {
	var refreshClaims *domain.Claims
	if refreshToken != "" {
		claims, err := s.tokenService.ValidateTokenType(refreshToken, domain.TokenTypeRefresh)
		if err != nil || claims.UserID != user.ID {
			return domain.ErrValidation("Invalid refresh token")
		}
		refreshClaims = claims
	}

	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.LoginHistory.CloseLatestOpen(ctx, user.ID, s.now()); err != nil {
			return err
		}
		if refreshClaims != nil {
			return r.Sessions.DeleteByTokenHash(ctx, hashToken(refreshToken))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if access != nil && access.ExpiresAt != nil {
		if err := s.tokenBlacklist.AddUntil(ctx, access.ID, access.ExpiresAt.Time); err != nil {
			return err
		}
	}
	if refreshClaims != nil && refreshClaims.ExpiresAt != nil {
		if err := s.tokenBlacklist.AddUntil(ctx, refreshClaims.ID, refreshClaims.ExpiresAt.Time); err != nil {
			return err
		}
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged out")
	return nil
}

// PurgeExpiredSessions deletes sessions whose refresh token can no longer be used
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.Repos().Sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug().Int64("sessions", n).Msg("expired sessions purged")
	}
	return n, nil
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// LoginHistory lists the user's most recent logins, newest first
func (s *AuthService) LoginHistory(ctx context.Context, user *domain.User, limit int) ([]*domain.LoginHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.store.Repos().LoginHistory.ListByUser(ctx, user.ID, limit)
}
