package postgres

import (
	"context"
	"fmt"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	buyerColumns = `id, code, buyer_name, buyer_address, contact_person, retailer,
		tenant_id, created_by, created_at, updated_at`
	vendorColumns = `id, code, vendor_name, address, gst, contact_person, email,
		whatsapp_number, alt_whatsapp_number, bank_name, account_number, ifsc_code,
		job_work_category, job_work_sub_category, payment_terms,
		tenant_id, created_by, created_at, updated_at`
	departmentColumns = `id, code, name, description, display_order, is_active,
		tenant_id, created_by, created_at, updated_at`
	segmentColumns = `id, department_id, code, name, description, display_order, is_active,
		created_by, created_at, updated_at`
)

// sharedScopeKey stands in for the null tenant in advisory lock keys
const sharedScopeKey = "shared"

func codeTable(kind domain.CodeKind) (string, error) {
	switch kind {
	case domain.CodeKindBuyer:
		return "buyer_codes", nil
	case domain.CodeKindVendor:
		return "vendor_codes", nil
	}
	return "", fmt.Errorf("unknown code kind %q", kind)
}

type codeRepository struct {
	db sqlx.ExtContext
}

// LockScope takes a transaction-scoped advisory lock keyed on kind and tenant
func (r *codeRepository) LockScope(ctx context.Context, kind domain.CodeKind, tenantID *uuid.UUID) error {
	scope := sharedScopeKey
	if tenantID != nil {
		scope = tenantID.String()
	}
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, string(kind)+":"+scope)
	if err != nil {
		return fmt.Errorf("failed to lock %s code scope: %w", kind, err)
	}
	return nil
}

func (r *codeRepository) ListCodes(ctx context.Context, kind domain.CodeKind, tenantID *uuid.UUID) ([]string, error) {
	table, err := codeTable(kind)
	if err != nil {
		return nil, err
	}
	where, args := scopeClause(repository.Scope{TenantID: tenantID}, "tenant_id", nil)

	var codes []string
	if err := sqlx.SelectContext(ctx, r.db, &codes, `SELECT code FROM `+table+where, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s codes: %w", kind, err)
	}
	return codes, nil
}

// CreateBuyer inserts a buyer code. A code taken in the tenant scope yields repository.ErrDuplicate.
func (r *codeRepository) CreateBuyer(ctx context.Context, code *domain.BuyerCode) error {
	query := `
		INSERT INTO buyer_codes (` + buyerColumns + `) VALUES (
			:id, :code, :buyer_name, :buyer_address, :contact_person, :retailer,
			:tenant_id, :created_by, :created_at, :updated_at
		)`

	return execNamed(ctx, r.db, "buyer code", query, code, false)
}

func (r *codeRepository) GetBuyer(ctx context.Context, id uuid.UUID) (*domain.BuyerCode, error) {
	var code domain.BuyerCode
	query := `SELECT ` + buyerColumns + ` FROM buyer_codes WHERE id = $1`
	if err := getOne(ctx, r.db, &code, "buyer code", query, id); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) ListBuyers(ctx context.Context, scope repository.Scope, search string) ([]*domain.BuyerCode, error) {
	where, args := scopeClause(scope, "tenant_id", nil)
	where, args = searchClause(where, args, search, "buyer_name", "code", "retailer", "contact_person")
	query := `SELECT ` + buyerColumns + ` FROM buyer_codes` + where + ` ORDER BY created_at DESC`

	var codes []*domain.BuyerCode
	if err := sqlx.SelectContext(ctx, r.db, &codes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list buyer codes: %w", err)
	}
	return codes, nil
}

func (r *codeRepository) UpdateBuyer(ctx context.Context, code *domain.BuyerCode) error {
	query := `
		UPDATE buyer_codes SET
			buyer_name = :buyer_name, buyer_address = :buyer_address,
			contact_person = :contact_person, retailer = :retailer, updated_at = :updated_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "buyer code", query, code, true)
}

func (r *codeRepository) DeleteBuyer(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "buyer_codes", "buyer code", id)
}

func (r *codeRepository) CreateVendor(ctx context.Context, code *domain.VendorCode) error {
	query := `
		INSERT INTO vendor_codes (` + vendorColumns + `) VALUES (
			:id, :code, :vendor_name, :address, :gst, :contact_person, :email,
			:whatsapp_number, :alt_whatsapp_number, :bank_name, :account_number, :ifsc_code,
			:job_work_category, :job_work_sub_category, :payment_terms,
			:tenant_id, :created_by, :created_at, :updated_at
		)`

	return execNamed(ctx, r.db, "vendor code", query, code, false)
}

func (r *codeRepository) GetVendor(ctx context.Context, id uuid.UUID) (*domain.VendorCode, error) {
	var code domain.VendorCode
	query := `SELECT ` + vendorColumns + ` FROM vendor_codes WHERE id = $1`
	if err := getOne(ctx, r.db, &code, "vendor code", query, id); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) ListVendors(ctx context.Context, scope repository.Scope, search string) ([]*domain.VendorCode, error) {
	where, args := scopeClause(scope, "tenant_id", nil)
	where, args = searchClause(where, args, search, "vendor_name", "code", "gst", "contact_person", "email", "job_work_category")
	query := `SELECT ` + vendorColumns + ` FROM vendor_codes` + where + ` ORDER BY created_at DESC`

	var codes []*domain.VendorCode
	if err := sqlx.SelectContext(ctx, r.db, &codes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list vendor codes: %w", err)
	}
	return codes, nil
}

func (r *codeRepository) UpdateVendor(ctx context.Context, code *domain.VendorCode) error {
	query := `
		UPDATE vendor_codes SET
			vendor_name = :vendor_name, address = :address, gst = :gst,
			contact_person = :contact_person, email = :email,
			whatsapp_number = :whatsapp_number, alt_whatsapp_number = :alt_whatsapp_number,
			bank_name = :bank_name, account_number = :account_number, ifsc_code = :ifsc_code,
			job_work_category = :job_work_category, job_work_sub_category = :job_work_sub_category,
			payment_terms = :payment_terms, updated_at = :updated_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "vendor code", query, code, true)
}

func (r *codeRepository) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "vendor_codes", "vendor code", id)
}

type departmentRepository struct {
	db sqlx.ExtContext
}

func (r *departmentRepository) CreateDepartment(ctx context.Context, department *domain.Department) error {
	query := `
		INSERT INTO departments (` + departmentColumns + `) VALUES (
			:id, :code, :name, :description, :display_order, :is_active,
			:tenant_id, :created_by, :created_at, :updated_at
		)`

	return execNamed(ctx, r.db, "department", query, department, false)
}

func (r *departmentRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	var department domain.Department
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	if err := getOne(ctx, r.db, &department, "department", query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) ListDepartments(ctx context.Context, scope repository.Scope, search string) ([]*domain.Department, error) {
	where, args := scopeClause(scope, "tenant_id", nil)
	where, args = searchClause(where, args, search, "name", "code", "description")
	query := `SELECT ` + departmentColumns + ` FROM departments` + where + ` ORDER BY display_order, name`

	var departments []*domain.Department
	if err := sqlx.SelectContext(ctx, r.db, &departments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// CreateSegment inserts a segment; codes are unique within a department
func (r *departmentRepository) CreateSegment(ctx context.Context, segment *domain.Segment) error {
	query := `
		INSERT INTO segments (` + segmentColumns + `) VALUES (
			:id, :department_id, :code, :name, :description, :display_order, :is_active,
			:created_by, :created_at, :updated_at
		)`

	return execNamed(ctx, r.db, "segment", query, segment, false)
}

func (r *departmentRepository) GetSegment(ctx context.Context, id uuid.UUID) (*domain.Segment, error) {
	var segment domain.Segment
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE id = $1`
	if err := getOne(ctx, r.db, &segment, "segment", query, id); err != nil {
		return nil, err
	}
	return &segment, nil
}

func (r *departmentRepository) ListSegments(ctx context.Context, departmentID uuid.UUID, search string) ([]*domain.Segment, error) {
	where, args := searchClause(" WHERE department_id = $1", []any{departmentID}, search, "name", "code", "description")
	query := `SELECT ` + segmentColumns + ` FROM segments` + where + ` ORDER BY display_order, name`

	var segments []*domain.Segment
	if err := sqlx.SelectContext(ctx, r.db, &segments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return segments, nil
}

// UpdateSegment rewrites the mutable columns; a new code must stay unique in the department
func (r *departmentRepository) UpdateSegment(ctx context.Context, segment *domain.Segment) error {
	query := `
		UPDATE segments SET
			code = :code, name = :name, description = :description,
			display_order = :display_order, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "segment", query, segment, true)
}

func (r *departmentRepository) DeleteSegment(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "segments", "segment", id)
}
