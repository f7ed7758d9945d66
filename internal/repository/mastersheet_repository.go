package repository

import (
	"context"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
)

// CodeRepository stores buyer and vendor codes. Codes are unique per tenant scope
// and never rewritten once allocated.
// List methods take a search term matched case-insensitively against the
// descriptive columns; an empty term matches every row.
type CodeRepository interface {
	// LockScope serializes code generation for (kind, tenant) until the
	// transaction ends
	LockScope(ctx context.Context, kind domain.CodeKind, tenantID *uuid.UUID) error
	ListCodes(ctx context.Context, kind domain.CodeKind, tenantID *uuid.UUID) ([]string, error)

	CreateBuyer(ctx context.Context, code *domain.BuyerCode) error
	GetBuyer(ctx context.Context, id uuid.UUID) (*domain.BuyerCode, error)
	ListBuyers(ctx context.Context, scope Scope, search string) ([]*domain.BuyerCode, error)
	// UpdateBuyer writes every column except code, tenant and creator
	UpdateBuyer(ctx context.Context, code *domain.BuyerCode) error
	DeleteBuyer(ctx context.Context, id uuid.UUID) error

	CreateVendor(ctx context.Context, code *domain.VendorCode) error
	GetVendor(ctx context.Context, id uuid.UUID) (*domain.VendorCode, error)
	ListVendors(ctx context.Context, scope Scope, search string) ([]*domain.VendorCode, error)
	UpdateVendor(ctx context.Context, code *domain.VendorCode) error
	DeleteVendor(ctx context.Context, id uuid.UUID) error
}

type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, department *domain.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*domain.Department, error)
	ListDepartments(ctx context.Context, scope Scope, search string) ([]*domain.Department, error)

	CreateSegment(ctx context.Context, segment *domain.Segment) error
	GetSegment(ctx context.Context, id uuid.UUID) (*domain.Segment, error)
	ListSegments(ctx context.Context, departmentID uuid.UUID, search string) ([]*domain.Segment, error)
	UpdateSegment(ctx context.Context, segment *domain.Segment) error
	DeleteSegment(ctx context.Context, id uuid.UUID) error
}
