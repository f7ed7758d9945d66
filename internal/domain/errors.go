package domain

import (
	"net/http"

	"github.com/Developershubh00/Binder-backend/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeValidation         = ErrRegistry.Register("VALIDATION", errx.TypeValidation, 0, "Invalid request")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthentication, 0, "Unable to log in with provided credentials")
	CodeUnauthorized       = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthentication, 0, "Authentication required")
	CodePermissionDenied   = ErrRegistry.Register("PERMISSION_DENIED", errx.TypePermission, 0, "You do not have permission to perform this action")
	CodeNotFound           = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, 0, "Not found")
	CodeDuplicateName      = ErrRegistry.Register("DUPLICATE_NAME", errx.TypeConflict, 0, "A tenant with this company name already exists")
	CodeDuplicateEmail     = ErrRegistry.Register("DUPLICATE_EMAIL", errx.TypeConflict, 0, "A user with this email already exists")
	CodeInvalidRange       = ErrRegistry.Register("INVALID_RANGE", errx.TypeValidation, 0, "User limit must be between 1 and 1000")
	CodeLimitBelowUsage    = ErrRegistry.Register("LIMIT_BELOW_USAGE", errx.TypeConflict, http.StatusBadRequest, "User limit cannot be less than current user count")
	CodeTenantFull         = ErrRegistry.Register("TENANT_FULL", errx.TypeConflict, 0, "User limit reached")
	CodeSelfDeactivation   = ErrRegistry.Register("SELF_DEACTIVATION", errx.TypeValidation, 0, "You cannot deactivate your own account")
	CodeTokenNotFound      = ErrRegistry.Register("TOKEN_NOT_FOUND", errx.TypeValidation, 0, "Invalid or expired link")
	CodeTokenExpired       = ErrRegistry.Register("TOKEN_EXPIRED", errx.TypeExpired, 0, "Link expired. Please request a new one.")
	CodeNoOTPPending       = ErrRegistry.Register("NO_OTP_PENDING", errx.TypeValidation, 0, "No OTP found. Please request a new one.")
	CodeOTPExpired         = ErrRegistry.Register("OTP_EXPIRED", errx.TypeExpired, 0, "OTP expired. Please request a new one.")
	CodeOTPMismatch        = ErrRegistry.Register("OTP_MISMATCH", errx.TypeValidation, 0, "Invalid OTP")
	CodeCodeConflict       = ErrRegistry.Register("CODE_CONFLICT", errx.TypeConflict, 0, "Could not allocate a unique code, please retry")
	CodeDuplicateCode      = ErrRegistry.Register("DUPLICATE_CODE", errx.TypeConflict, 0, "A record with this code already exists")
)

func ErrValidation(message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeValidation, message)
}

// ErrFieldValidation names the offending field in the error details
func ErrFieldValidation(field, message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeValidation, message).WithDetail("field", field)
}

func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrUnauthorized() *errx.Error       { return ErrRegistry.New(CodeUnauthorized) }
func ErrPermissionDenied() *errx.Error   { return ErrRegistry.New(CodePermissionDenied) }
func ErrDuplicateName() *errx.Error      { return ErrRegistry.New(CodeDuplicateName) }
func ErrDuplicateEmail() *errx.Error     { return ErrRegistry.New(CodeDuplicateEmail) }
func ErrInvalidRange() *errx.Error       { return ErrRegistry.New(CodeInvalidRange) }
func ErrSelfDeactivation() *errx.Error   { return ErrRegistry.New(CodeSelfDeactivation) }
func ErrTokenNotFound() *errx.Error      { return ErrRegistry.New(CodeTokenNotFound) }
func ErrTokenExpired() *errx.Error       { return ErrRegistry.New(CodeTokenExpired) }
func ErrNoOTPPending() *errx.Error       { return ErrRegistry.New(CodeNoOTPPending) }
func ErrOTPExpired() *errx.Error         { return ErrRegistry.New(CodeOTPExpired) }
func ErrOTPMismatch() *errx.Error        { return ErrRegistry.New(CodeOTPMismatch) }
func ErrCodeConflict() *errx.Error       { return ErrRegistry.New(CodeCodeConflict) }
func ErrDuplicateCode() *errx.Error      { return ErrRegistry.New(CodeDuplicateCode) }

func ErrPermissionDeniedMsg(message string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodePermissionDenied, message)
}

func ErrNotFound(what string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeNotFound, what+" not found")
}

func ErrTenantFull(limit int) *errx.Error {
	return ErrRegistry.New(CodeTenantFull).WithDetail("user_limit", limit)
}

func ErrLimitBelowUsage(current int) *errx.Error {
	return ErrRegistry.New(CodeLimitBelowUsage).WithDetail("current_user_count", current)
}
