package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type codeRepository struct{ conn }

// matches reports whether any field contains term, ignoring case
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// LockScope is a no-op: transactions already hold the store lock
func (r *codeRepository) LockScope(context.Context, domain.CodeKind, *uuid.UUID) error {
	return nil
}

func (r *codeRepository) ListCodes(_ context.Context, kind domain.CodeKind, tenantID *uuid.UUID) ([]string, error) {
	var codes []string
	err := r.do(func(st *state) error {
		switch kind {
		case domain.CodeKindBuyer:
			for _, c := range st.buyers {
				if sameTenant(c.TenantID, tenantID) {
					codes = append(codes, c.Code)
				}
			}
		case domain.CodeKindVendor:
			for _, c := range st.vendors {
				if sameTenant(c.TenantID, tenantID) {
					codes = append(codes, c.Code)
				}
			}
		default:
			return fmt.Errorf("unknown code kind %q", kind)
		}
		return nil
	})
	return codes, err
}

func (r *codeRepository) CreateBuyer(_ context.Context, code *domain.BuyerCode) error {
	return r.do(func(st *state) error {
		for _, c := range st.buyers {
			if c.Code == code.Code && sameTenant(c.TenantID, code.TenantID) {
				return fmt.Errorf("buyer code: %w", repository.ErrDuplicate)
			}
		}
		st.buyers[code.ID] = *code
		return nil
	})
}

func (r *codeRepository) GetBuyer(_ context.Context, id uuid.UUID) (*domain.BuyerCode, error) {
	var code domain.BuyerCode
	err := r.do(func(st *state) error {
		c, ok := st.buyers[id]
		if !ok {
			return fmt.Errorf("buyer code not found: %w", repository.ErrNotFound)
		}
		code = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) ListBuyers(_ context.Context, scope repository.Scope, search string) ([]*domain.BuyerCode, error) {
	var codes []*domain.BuyerCode
	err := r.do(func(st *state) error {
		for _, c := range st.buyers {
			if inScope(scope, c.TenantID) && matches(search, c.BuyerName, c.Code, c.Retailer, c.ContactPerson) {
				codes = append(codes, &c)
			}
		}
		return nil
	})
	sort.Slice(codes, func(i, j int) bool { return codes[i].CreatedAt.After(codes[j].CreatedAt) })
	return codes, err
}

func (r *codeRepository) UpdateBuyer(_ context.Context, code *domain.BuyerCode) error {
	return r.do(func(st *state) error {
		c, ok := st.buyers[code.ID]
		if !ok {
			return fmt.Errorf("buyer code not found: %w", repository.ErrNotFound)
		}
		c.BuyerName = code.BuyerName
		c.BuyerAddress = code.BuyerAddress
		c.ContactPerson = code.ContactPerson
		c.Retailer = code.Retailer
		c.UpdatedAt = code.UpdatedAt
		st.buyers[code.ID] = c
		return nil
	})
}

func (r *codeRepository) DeleteBuyer(_ context.Context, id uuid.UUID) error {
	return r.do(func(st *state) error {
		if _, ok := st.buyers[id]; !ok {
			return fmt.Errorf("buyer code not found: %w", repository.ErrNotFound)
		}
		delete(st.buyers, id)
		return nil
	})
}

func (r *codeRepository) CreateVendor(_ context.Context, code *domain.VendorCode) error {
	return r.do(func(st *state) error {
		for _, c := range st.vendors {
			if c.Code == code.Code && sameTenant(c.TenantID, code.TenantID) {
				return fmt.Errorf("vendor code: %w", repository.ErrDuplicate)
			}
		}
		st.vendors[code.ID] = *code
		return nil
	})
}

func (r *codeRepository) GetVendor(_ context.Context, id uuid.UUID) (*domain.VendorCode, error) {
	var code domain.VendorCode
	err := r.do(func(st *state) error {
		c, ok := st.vendors[id]
		if !ok {
			return fmt.Errorf("vendor code not found: %w", repository.ErrNotFound)
		}
		code = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *codeRepository) ListVendors(_ context.Context, scope repository.Scope, search string) ([]*domain.VendorCode, error) {
	var codes []*domain.VendorCode
	err := r.do(func(st *state) error {
		for _, c := range st.vendors {
			if inScope(scope, c.TenantID) && matches(search, c.VendorName, c.Code, c.GST, c.ContactPerson, c.Email, c.JobWorkCategory) {
				codes = append(codes, &c)
			}
		}
		return nil
	})
	sort.Slice(codes, func(i, j int) bool { return codes[i].CreatedAt.After(codes[j].CreatedAt) })
	return codes, err
}

// UpdateVendor keeps code, tenant and creator of the stored row
func (r *codeRepository) UpdateVendor(_ context.Context, code *domain.VendorCode) error {
	return r.do(func(st *state) error {
		c, ok := st.vendors[code.ID]
		if !ok {
			return fmt.Errorf("vendor code not found: %w", repository.ErrNotFound)
		}
		updated := *code
		updated.Code = c.Code
		updated.TenantID = c.TenantID
		updated.CreatedBy = c.CreatedBy
		updated.CreatedAt = c.CreatedAt
		st.vendors[code.ID] = updated
		return nil
	})
}

func (r *codeRepository) DeleteVendor(_ context.Context, id uuid.UUID) error {
	return r.do(func(st *state) error {
		if _, ok := st.vendors[id]; !ok {
			return fmt.Errorf("vendor code not found: %w", repository.ErrNotFound)
		}
		delete(st.vendors, id)
		return nil
	})
}

type departmentRepository struct{ conn }

func (r *departmentRepository) CreateDepartment(_ context.Context, department *domain.Department) error {
	return r.do(func(st *state) error {
		for _, d := range st.departments {
			if d.Code == department.Code {
				return fmt.Errorf("department: %w", repository.ErrDuplicate)
			}
		}
		st.departments[department.ID] = *department
		return nil
	})
}

func (r *departmentRepository) GetDepartment(_ context.Context, id uuid.UUID) (*domain.Department, error) {
	var department domain.Department
	err := r.do(func(st *state) error {
		d, ok := st.departments[id]
		if !ok {
			return fmt.Errorf("department not found: %w", repository.ErrNotFound)
		}
		department = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) ListDepartments(_ context.Context, scope repository.Scope, search string) ([]*domain.Department, error) {
	var departments []*domain.Department
	err := r.do(func(st *state) error {
		for _, d := range st.departments {
			if inScope(scope, d.TenantID) && matches(search, d.Name, d.Code, d.Description) {
				departments = append(departments, &d)
			}
		}
		return nil
	})
	sort.Slice(departments, func(i, j int) bool {
		if departments[i].DisplayOrder != departments[j].DisplayOrder {
			return departments[i].DisplayOrder < departments[j].DisplayOrder
		}
		return departments[i].Name < departments[j].Name
	})
	return departments, err
}

func (r *departmentRepository) CreateSegment(_ context.Context, segment *domain.Segment) error {
	return r.do(func(st *state) error {
		if _, ok := st.departments[segment.DepartmentID]; !ok {
			return fmt.Errorf("department not found: %w", repository.ErrNotFound)
		}
		for _, s := range st.segments {
			if s.DepartmentID == segment.DepartmentID && s.Code == segment.Code {
				return fmt.Errorf("segment: %w", repository.ErrDuplicate)
			}
		}
		st.segments[segment.ID] = *segment
		return nil
	})
}

func (r *departmentRepository) GetSegment(_ context.Context, id uuid.UUID) (*domain.Segment, error) {
	var segment domain.Segment
	err := r.do(func(st *state) error {
		s, ok := st.segments[id]
		if !ok {
			return fmt.Errorf("segment not found: %w", repository.ErrNotFound)
		}
		segment = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

func (r *departmentRepository) ListSegments(_ context.Context, departmentID uuid.UUID, search string) ([]*domain.Segment, error) {
	var segments []*domain.Segment
	err := r.do(func(st *state) error {
		for _, s := range st.segments {
			if s.DepartmentID == departmentID && matches(search, s.Name, s.Code, s.Description) {
				segments = append(segments, &s)
			}
		}
		return nil
	})
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].DisplayOrder != segments[j].DisplayOrder {
			return segments[i].DisplayOrder < segments[j].DisplayOrder
		}
		return segments[i].Name < segments[j].Name
	})
	return segments, err
}

func (r *departmentRepository) UpdateSegment(_ context.Context, segment *domain.Segment) error {
	return r.do(func(st *state) error {
		current, ok := st.segments[segment.ID]
		if !ok {
			return fmt.Errorf("segment not found: %w", repository.ErrNotFound)
		}
		for _, s := range st.segments {
			if s.ID != segment.ID && s.DepartmentID == current.DepartmentID && s.Code == segment.Code {
				return fmt.Errorf("segment: %w", repository.ErrDuplicate)
			}
		}
		updated := *segment
		updated.DepartmentID = current.DepartmentID
		updated.CreatedBy = current.CreatedBy
		updated.CreatedAt = current.CreatedAt
		st.segments[segment.ID] = updated
		return nil
	})
}

func (r *departmentRepository) DeleteSegment(_ context.Context, id uuid.UUID) error {
	return r.do(func(st *state) error {
		if _, ok := st.segments[id]; !ok {
			return fmt.Errorf("segment not found: %w", repository.ErrNotFound)
		}
		delete(st.segments, id)
		return nil
	})
}
