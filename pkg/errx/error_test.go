package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterDefaultsStatusFromType(t *testing.T) {
	reg := NewRegistry("TEST")

	notFound := reg.Register("MISSING", TypeNotFound, 0, "missing")
	custom := reg.Register("LIMIT", TypeConflict, http.StatusBadRequest, "limit")

	assert.Equal(t, "TEST_MISSING", notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, custom.HTTPStatus)

	got, ok := reg.Get("LIMIT")
	require.True(t, ok)
	assert.Same(t, custom, got)
}

func TestError_IsMatchesByCode(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("EXPIRED", TypeExpired, 0, "expired")

	err := fmt.Errorf("verify: %w", reg.NewWithMessage(code, "OTP expired"))

	assert.True(t, errors.Is(err, reg.New(code)))
	assert.True(t, HasCode(err, code))
	assert.False(t, HasCode(errors.New("plain"), code))
}

func TestWrap_PreservesRegisteredCode(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("DENIED", TypePermission, 0, "denied")

	wrapped := Wrap(reg.New(code), "cannot toggle", TypeInternal)

	assert.Equal(t, code.Code, wrapped.Code)
	assert.Equal(t, http.StatusForbidden, wrapped.HTTPStatus)
	assert.Equal(t, "cannot toggle", wrapped.Message)
	assert.Nil(t, Wrap(nil, "x", TypeInternal))
}
