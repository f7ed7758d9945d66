package handler

import (
	"net/http"
	"testing"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":            "asha@mill.test",
		"password":         testPassword,
		"password_confirm": testPassword,
		"first_name":       "Asha",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", resp.Status)
	var registered struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	resp.decode(t, &registered)
	assert.Equal(t, "asha@mill.test", registered.Email)
	assert.True(t, registered.EmailVerified)

	token := srv.login(t, "asha@mill.test")

	status, resp = srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, withToken(token))
	require.Equal(t, http.StatusOK, status)
	var me struct {
		Email       string        `json:"email"`
		FullName    string        `json:"full_name"`
		Role        domain.Role   `json:"role"`
		Permissions []interface{} `json:"permissions"`
	}
	resp.decode(t, &me)
	assert.Equal(t, "asha@mill.test", me.Email)
	assert.Equal(t, domain.RoleEmployee, me.Role)
	assert.NotNil(t, me.Permissions)
	assert.NotContains(t, string(resp.Data), "password")
}

func TestRegister_ValidationError(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":            "not-an-email",
		"password":         testPassword,
		"password_confirm": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, domain.CodeValidation.Code, resp.Code)
	assert.Equal(t, "email", resp.Details["field"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ghost@mill.test", "password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, domain.CodeInvalidCredentials.Code, resp.Code)
}

func TestProtectedRoute_RequiresBearer(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		opts []requestOption
	}{
		{"missing header", nil},
		{"wrong scheme", []requestOption{withHeader("Authorization", "Basic abc")}},
		{"garbage token", []requestOption{withToken("not.a.jwt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, tt.opts...)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, domain.CodeUnauthorized.Code, resp.Code)
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "asha@mill.test", "password": testPassword, "password_confirm": testPassword,
	})

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "asha@mill.test", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, status)
	var login struct {
		Tokens domain.TokenPair `json:"tokens"`
	}
	resp.decode(t, &login)

	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/token/refresh", map[string]string{"refresh": login.Tokens.Refresh})
	require.Equal(t, http.StatusOK, status)
	var rotated domain.TokenPair
	resp.decode(t, &rotated)
	assert.NotEmpty(t, rotated.Access)

	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/token/refresh", map[string]string{"refresh": login.Tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, domain.CodeUnauthorized.Code, resp.Code)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/auth/logout", map[string]string{"refresh": rotated.Refresh}, withToken(rotated.Access))
	require.Equal(t, http.StatusOK, status)

	status, _ = srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, withToken(rotated.Access))
	assert.Equal(t, http.StatusUnauthorized, status)

	token := srv.login(t, "asha@mill.test")
	status, resp = srv.do(t, http.MethodGet, "/api/v1/auth/me/login-history", nil, withToken(token))
	require.Equal(t, http.StatusOK, status)
	var history struct {
		Count int `json:"count"`
	}
	resp.decode(t, &history)
	assert.Equal(t, 2, history.Count)
}

func TestPasswordReset_SameAnswerForUnknownEmail(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "asha@mill.test", "password": testPassword, "password_confirm": testPassword,
	})

	knownStatus, known := srv.do(t, http.MethodPost, "/api/v1/auth/password-reset/request", map[string]string{"email": "asha@mill.test"})
	unknownStatus, unknown := srv.do(t, http.MethodPost, "/api/v1/auth/password-reset/request", map[string]string{"email": "ghost@mill.test"})

	assert.Equal(t, http.StatusOK, knownStatus)
	assert.Equal(t, knownStatus, unknownStatus)
	assert.Equal(t, known, unknown)
}

func TestSetPassword_UnknownToken(t *testing.T) {
	srv := newTestServer(t)

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/set-password", map[string]string{
		"token": "bogus", "password": "new-pass-1", "password_confirm": "new-pass-1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.CodeTokenNotFound.Code, resp.Code)

	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/set-password", map[string]string{
		"token": "bogus", "password": "new-pass-1", "password_confirm": "other-pass",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "password_confirm", resp.Details["field"])
}

func TestSetup(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]string{
		"email": "root@binder.test", "password": testPassword, "first_name": "Root", "last_name": "Admin",
	}

	status, resp := srv.do(t, http.MethodGet, "/api/v1/auth/setup", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"setup_required":true}`, string(resp.Data))

	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/setup", body, withHeader(setupTokenHeader, "wrong"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, domain.CodePermissionDenied.Code, resp.Code)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/auth/setup", body, withHeader(setupTokenHeader, testSetupToken))
	require.Equal(t, http.StatusCreated, status)

	body["email"] = "second@binder.test"
	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/setup", body, withHeader(setupTokenHeader, testSetupToken))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, resp.Message, "only be used once")

	status, resp = srv.do(t, http.MethodGet, "/api/v1/auth/setup", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"setup_required":false}`, string(resp.Data))
}
