package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,role"`
	Plan            string `json:"plan" validate:"omitempty,plan"`
	UserLimit       int    `json:"user_limit" validate:"omitempty,min=1,max=1000"`
}

func valid() registerInput {
	return registerInput{Email: "a@acme.test", Password: "secret123", PasswordConfirm: "secret123"}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v := NewValidator()
	roles := map[string]bool{"employee": true, "custom": true}
	plans := map[string]bool{"standard": true, "premium": true}
	require.NoError(t, v.RegisterEnum("role", func(s string) bool { return roles[s] }))
	require.NoError(t, v.RegisterEnum("plan", func(s string) bool { return plans[s] }))
	return v
}

func TestValidate(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name      string
		mutate    func(in *registerInput)
		wantField string
		wantMsg   string
	}{
		{"bad email", func(in *registerInput) { in.Email = "nope" }, "email", "email must be a valid email address"},
		{"short password", func(in *registerInput) { in.Password, in.PasswordConfirm = "short", "short" }, "password", "password must be at least 8 characters"},
		{"mismatch", func(in *registerInput) { in.PasswordConfirm = "different1" }, "password_confirm", "password_confirm must match password"},
		{"unknown role", func(in *registerInput) { in.Role = "wizard" }, "role", "role must be a valid role"},
		{"unknown plan", func(in *registerInput) { in.Plan = "gold" }, "plan", "plan must be a valid plan"},
		{"limit too high", func(in *registerInput) { in.UserLimit = 1001 }, "user_limit", "user_limit must be at most 1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)

			err := v.Validate(in)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantField, fe.Field)
			assert.Equal(t, tt.wantMsg, fe.Message)
		})
	}
}

func TestValidate_OK(t *testing.T) {
	in := valid()
	in.Role = "custom"
	in.Plan = "premium"
	assert.NoError(t, newTestValidator(t).Validate(in))
}
