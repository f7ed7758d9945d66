package errx

// Type represents the category of error
type Type string

const (
	TypeInternal       Type = "INTERNAL"
	TypeValidation     Type = "VALIDATION"
	TypeAuthentication Type = "AUTHENTICATION"
	TypePermission     Type = "PERMISSION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeExpired        Type = "EXPIRED"
	TypeExternal       Type = "EXTERNAL"
)

func (t Type) String() string {
	return string(t)
}

// typeToHTTPStatus maps error types to their default HTTP status
func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation, TypeExpired:
		return 400
	case TypeAuthentication:
		return 401
	case TypePermission:
		return 403
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeExternal:
		return 502
	default:
		return 500
	}
}
