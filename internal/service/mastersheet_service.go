package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/Developershubh00/Binder-backend/pkg/metrics"
	"github.com/google/uuid"
)

// MasterSheetService owns buyer and vendor codes and the department tree.
// Rows belong to the creator's tenant; a tenant-less creator writes shared rows.
type MasterSheetService struct {
	store   repository.Store
	retries int
	metrics *metrics.Metrics
	log     *logger.Logger
	now     Clock
}

type CreateBuyerCodeRequest struct {
	BuyerName     string `json:"buyer_name" validate:"required,max=255"`
	BuyerAddress  string `json:"buyer_address"`
	ContactPerson string `json:"contact_person" validate:"max=255"`
	Retailer      string `json:"retailer" validate:"max=255"`
}

type CreateVendorCodeRequest struct {
	VendorName         string  `json:"vendor_name" validate:"required,max=255"`
	Address            string  `json:"address"`
	GST                string  `json:"gst" validate:"max=50"`
	ContactPerson      string  `json:"contact_person" validate:"max=255"`
	Email              string  `json:"email" validate:"omitempty,email"`
	WhatsappNumber     string  `json:"whatsapp_number" validate:"max=20"`
	AltWhatsappNumber  *string `json:"alt_whatsapp_number" validate:"omitempty,max=20"`
	BankName           string  `json:"bank_name" validate:"max=255"`
	AccountNumber      string  `json:"account_number" validate:"max=50"`
	IFSCCode           string  `json:"ifsc_code" validate:"max=20"`
	JobWorkCategory    string  `json:"job_work_category" validate:"max=100"`
	JobWorkSubCategory string  `json:"job_work_sub_category" validate:"max=100"`
	PaymentTerms       string  `json:"payment_terms" validate:"max=255"`
}

type CreateDepartmentRequest struct {
	Code         string `json:"code" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

type CreateSegmentRequest struct {
	Code         string `json:"code" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

// UpdateBuyerCodeRequest carries the editable buyer fields. Codes are not editable.
type UpdateBuyerCodeRequest struct {
	BuyerName     *string `json:"buyer_name" validate:"omitempty,max=255"`
	BuyerAddress  *string `json:"buyer_address"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	Retailer      *string `json:"retailer" validate:"omitempty,max=255"`
}

type UpdateVendorCodeRequest struct {
	VendorName         *string `json:"vendor_name" validate:"omitempty,max=255"`
	Address            *string `json:"address"`
	GST                *string `json:"gst" validate:"omitempty,max=50"`
	ContactPerson      *string `json:"contact_person" validate:"omitempty,max=255"`
	Email              *string `json:"email" validate:"omitempty,email"`
	WhatsappNumber     *string `json:"whatsapp_number" validate:"omitempty,max=20"`
	AltWhatsappNumber  *string `json:"alt_whatsapp_number" validate:"omitempty,max=20"`
	BankName           *string `json:"bank_name" validate:"omitempty,max=255"`
	AccountNumber      *string `json:"account_number" validate:"omitempty,max=50"`
	IFSCCode           *string `json:"ifsc_code" validate:"omitempty,max=20"`
	JobWorkCategory    *string `json:"job_work_category" validate:"omitempty,max=100"`
	JobWorkSubCategory *string `json:"job_work_sub_category" validate:"omitempty,max=100"`
	PaymentTerms       *string `json:"payment_terms" validate:"omitempty,max=255"`
}

type UpdateSegmentRequest struct {
	Code         *string `json:"code" validate:"omitempty,max=50"`
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active"`
}

// MenuDepartment is one entry of the navigation tree built from active departments
type MenuDepartment struct {
	ID         uuid.UUID     `json:"id"`
	Code       string        `json:"code"`
	Label      string        `json:"label"`
	HasSubMenu bool          `json:"hasSubMenu"`
	Segments   []MenuSegment `json:"segments"`
}

type MenuSegment struct {
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code"`
	Label string    `json:"label"`
}

type NextCodeResponse struct {
	NextCode string `json:"next_code"`
}

func NewMasterSheetService(store repository.Store, retries int, m *metrics.Metrics, log *logger.Logger) *MasterSheetService {
	if retries < 1 {
		retries = 1
	}
	return &MasterSheetService{store: store, retries: retries, metrics: m, log: log.Named("mastersheet"), now: time.Now}
}

func (s *MasterSheetService) SetClock(now Clock) { s.now = now }

// allocate runs insert with the next free code of kind in tenantID's scope.
// The scope lock serializes allocation; a unique conflict from a writer that
// bypassed it regenerates the code, up to the configured attempts.
func (s *MasterSheetService) allocate(ctx context.Context, kind domain.CodeKind, tenantID *uuid.UUID, insert func(r repository.Repositories, code string) error) (string, error) {
	for attempt := 1; attempt <= s.retries; attempt++ {
		var code string
		err := s.store.WithTx(ctx, func(r repository.Repositories) error {
			if err := r.Codes.LockScope(ctx, kind, tenantID); err != nil {
				return err
			}
			existing, err := r.Codes.ListCodes(ctx, kind, tenantID)
			if err != nil {
				return err
			}
			code = kind.NextCode(existing)
			return insert(r, code)
		})
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", err
		}

		s.metrics.CodeGenerationRetry.WithLabelValues(string(kind)).Inc()
		s.log.Warn().Str("kind", string(kind)).Str("code", code).Int("attempt", attempt).Msg("code already taken, retrying")
	}
	return "", domain.ErrCodeConflict()
}

// NextCode previews the code the next create in the actor's scope would get
func (s *MasterSheetService) NextCode(ctx context.Context, actor *domain.User, kind domain.CodeKind) (*NextCodeResponse, error) {
	codes, err := s.store.Repos().Codes.ListCodes(ctx, kind, actor.TenantID)
	if err != nil {
		return nil, err
	}
	return &NextCodeResponse{NextCode: kind.NextCode(codes)}, nil
}

func (s *MasterSheetService) CreateBuyer(ctx context.Context, actor *domain.User, req CreateBuyerCodeRequest) (*domain.BuyerCode, error) {
	now := s.now()
	buyer := &domain.BuyerCode{
		BuyerName:     strings.TrimSpace(req.BuyerName),
		BuyerAddress:  req.BuyerAddress,
		ContactPerson: req.ContactPerson,
		Retailer:      req.Retailer,
		TenantID:      actor.TenantID,
		CreatedBy:     &actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := s.allocate(ctx, domain.CodeKindBuyer, actor.TenantID, func(r repository.Repositories, code string) error {
		buyer.ID = uuid.New()
		buyer.Code = code
		return r.Codes.CreateBuyer(ctx, buyer)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", buyer.Code).Str("user_id", actor.ID.String()).Msg("buyer code created")
	return buyer, nil
}

func (s *MasterSheetService) ListBuyers(ctx context.Context, actor *domain.User, search string) ([]*domain.BuyerCode, error) {
	return s.store.Repos().Codes.ListBuyers(ctx, ScopeFor(actor), search)
}

func (s *MasterSheetService) GetBuyer(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.BuyerCode, error) {
	return s.buyer(ctx, s.store.Repos(), actor, id)
}

// buyer loads a buyer code, hiding rows outside the actor's tenant
func (s *MasterSheetService) buyer(ctx context.Context, r repository.Repositories, actor *domain.User, id uuid.UUID) (*domain.BuyerCode, error) {
	buyer, err := r.Codes.GetBuyer(ctx, id)
	if err != nil {
		return nil, notFound(err, "Buyer code")
	}
	if !CanAccessTenant(actor, buyer.TenantID) {
		return nil, domain.ErrNotFound("Buyer code")
	}
	return buyer, nil
}

// UpdateBuyer applies the fields present in req. The code is kept as allocated.
func (s *MasterSheetService) UpdateBuyer(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateBuyerCodeRequest) (*domain.BuyerCode, error) {
	if req.BuyerName != nil && strings.TrimSpace(*req.BuyerName) == "" {
		return nil, domain.ErrFieldValidation("buyer_name", "buyer_name may not be blank")
	}

	var buyer *domain.BuyerCode
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		if buyer, err = s.buyer(ctx, r, actor, id); err != nil {
			return err
		}
		if req.BuyerName != nil {
			buyer.BuyerName = strings.TrimSpace(*req.BuyerName)
		}
		if req.BuyerAddress != nil {
			buyer.BuyerAddress = *req.BuyerAddress
		}
		if req.ContactPerson != nil {
			buyer.ContactPerson = *req.ContactPerson
		}
		if req.Retailer != nil {
			buyer.Retailer = *req.Retailer
		}
		buyer.UpdatedAt = s.now()
		return notFound(r.Codes.UpdateBuyer(ctx, buyer), "Buyer code")
	})
	if err != nil {
		return nil, err
	}
	return buyer, nil
}

// DeleteBuyer removes a buyer code and returns the deleted row
func (s *MasterSheetService) DeleteBuyer(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.BuyerCode, error) {
	var buyer *domain.BuyerCode
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		if buyer, err = s.buyer(ctx, r, actor, id); err != nil {
			return err
		}
		return notFound(r.Codes.DeleteBuyer(ctx, id), "Buyer code")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", buyer.Code).Str("user_id", actor.ID.String()).Msg("buyer code deleted")
	return buyer, nil
}

func (s *MasterSheetService) CreateVendor(ctx context.Context, actor *domain.User, req CreateVendorCodeRequest) (*domain.VendorCode, error) {
	now := s.now()
	vendor := &domain.VendorCode{
		VendorName:         strings.TrimSpace(req.VendorName),
		Address:            req.Address,
		GST:                req.GST,
		ContactPerson:      req.ContactPerson,
		Email:              domain.NormalizeEmail(req.Email),
		WhatsappNumber:     req.WhatsappNumber,
		AltWhatsappNumber:  req.AltWhatsappNumber,
		BankName:           req.BankName,
		AccountNumber:      req.AccountNumber,
		IFSCCode:           strings.ToUpper(req.IFSCCode),
		JobWorkCategory:    req.JobWorkCategory,
		JobWorkSubCategory: req.JobWorkSubCategory,
		PaymentTerms:       req.PaymentTerms,
		TenantID:           actor.TenantID,
		CreatedBy:          &actor.ID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := s.allocate(ctx, domain.CodeKindVendor, actor.TenantID, func(r repository.Repositories, code string) error {
		vendor.ID = uuid.New()
		vendor.Code = code
		return r.Codes.CreateVendor(ctx, vendor)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", vendor.Code).Str("user_id", actor.ID.String()).Msg("vendor code created")
	return vendor, nil
}

func (s *MasterSheetService) ListVendors(ctx context.Context, actor *domain.User, search string) ([]*domain.VendorCode, error) {
	return s.store.Repos().Codes.ListVendors(ctx, ScopeFor(actor), search)
}

func (s *MasterSheetService) GetVendor(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.VendorCode, error) {
	return s.vendor(ctx, s.store.Repos(), actor, id)
}

func (s *MasterSheetService) vendor(ctx context.Context, r repository.Repositories, actor *domain.User, id uuid.UUID) (*domain.VendorCode, error) {
	vendor, err := r.Codes.GetVendor(ctx, id)
	if err != nil {
		return nil, notFound(err, "Vendor code")
	}
	if !CanAccessTenant(actor, vendor.TenantID) {
		return nil, domain.ErrNotFound("Vendor code")
	}
	return vendor, nil
}

// UpdateVendor applies the fields present in req. The code is kept as allocated.
func (s *MasterSheetService) UpdateVendor(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateVendorCodeRequest) (*domain.VendorCode, error) {
	if req.VendorName != nil && strings.TrimSpace(*req.VendorName) == "" {
		return nil, domain.ErrFieldValidation("vendor_name", "vendor_name may not be blank")
	}

	var vendor *domain.VendorCode
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		if vendor, err = s.vendor(ctx, r, actor, id); err != nil {
			return err
		}
		if req.VendorName != nil {
			vendor.VendorName = strings.TrimSpace(*req.VendorName)
		}
		if req.Email != nil {
			vendor.Email = domain.NormalizeEmail(*req.Email)
		}
		if req.IFSCCode != nil {
			vendor.IFSCCode = strings.ToUpper(*req.IFSCCode)
		}
		if req.AltWhatsappNumber != nil {
			vendor.AltWhatsappNumber = req.AltWhatsappNumber
		}
		for _, f := range []struct {
			src *string
			dst *string
		}{
			{req.Address, &vendor.Address},
			{req.GST, &vendor.GST},
			{req.ContactPerson, &vendor.ContactPerson},
			{req.WhatsappNumber, &vendor.WhatsappNumber},
			{req.BankName, &vendor.BankName},
			{req.AccountNumber, &vendor.AccountNumber},
			{req.JobWorkCategory, &vendor.JobWorkCategory},
			{req.JobWorkSubCategory, &vendor.JobWorkSubCategory},
			{req.PaymentTerms, &vendor.PaymentTerms},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		vendor.UpdatedAt = s.now()
		return notFound(r.Codes.UpdateVendor(ctx, vendor), "Vendor code")
	})
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *MasterSheetService) DeleteVendor(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.VendorCode, error) {
	var vendor *domain.VendorCode
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		if vendor, err = s.vendor(ctx, r, actor, id); err != nil {
			return err
		}
		return notFound(r.Codes.DeleteVendor(ctx, id), "Vendor code")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", vendor.Code).Str("user_id", actor.ID.String()).Msg("vendor code deleted")
	return vendor, nil
}

func (s *MasterSheetService) CreateDepartment(ctx context.Context, actor *domain.User, req CreateDepartmentRequest) (*domain.Department, error) {
	now := s.now()
	department := &domain.Department{
		ID:           uuid.New(),
		Code:         strings.TrimSpace(req.Code),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		TenantID:     actor.TenantID,
		CreatedBy:    &actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Repos().Departments.CreateDepartment(ctx, department); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrDuplicateCode()
		}
		return nil, err
	}
	return department, nil
}

func (s *MasterSheetService) ListDepartments(ctx context.Context, actor *domain.User, search string) ([]*domain.Department, error) {
	return s.store.Repos().Departments.ListDepartments(ctx, ScopeFor(actor), search)
}

// DepartmentMenu returns the active departments visible to the actor, each
// with its active segments, in display order
func (s *MasterSheetService) DepartmentMenu(ctx context.Context, actor *domain.User) ([]MenuDepartment, error) {
	repos := s.store.Repos()
	departments, err := repos.Departments.ListDepartments(ctx, ScopeFor(actor), "")
	if err != nil {
		return nil, err
	}

	menu := make([]MenuDepartment, 0, len(departments))
	for _, d := range departments {
		if !d.IsActive {
			continue
		}
		segments, err := repos.Departments.ListSegments(ctx, d.ID, "")
		if err != nil {
			return nil, err
		}
		entry := MenuDepartment{ID: d.ID, Code: d.Code, Label: d.Name, Segments: []MenuSegment{}}
		for _, seg := range segments {
			if seg.IsActive {
				entry.Segments = append(entry.Segments, MenuSegment{ID: seg.ID, Code: seg.Code, Label: seg.Name})
			}
		}
		entry.HasSubMenu = len(entry.Segments) > 0
		menu = append(menu, entry)
	}
	return menu, nil
}

func (s *MasterSheetService) department(ctx context.Context, r repository.Repositories, actor *domain.User, id uuid.UUID) (*domain.Department, error) {
	department, err := r.Departments.GetDepartment(ctx, id)
	if err != nil {
		return nil, notFound(err, "Department")
	}
	if !CanAccessTenant(actor, department.TenantID) {
		return nil, domain.ErrNotFound("Department")
	}
	return department, nil
}

// CreateSegment adds a segment under a department visible to the actor.
// Shared departments accept segments only from master admins.
func (s *MasterSheetService) CreateSegment(ctx context.Context, actor *domain.User, departmentID uuid.UUID, req CreateSegmentRequest) (*domain.Segment, error) {
	var segment *domain.Segment
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		department, err := s.department(ctx, r, actor, departmentID)
		if err != nil {
			return err
		}
		if department.TenantID == nil && !actor.IsMasterAdmin() {
			return domain.ErrPermissionDeniedMsg("Only master admin can change shared departments")
		}

		now := s.now()
		segment = &domain.Segment{
			ID:           uuid.New(),
			DepartmentID: department.ID,
			Code:         strings.TrimSpace(req.Code),
			Name:         strings.TrimSpace(req.Name),
			Description:  req.Description,
			DisplayOrder: req.DisplayOrder,
			IsActive:     true,
			CreatedBy:    &actor.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Departments.CreateSegment(ctx, segment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateCode()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return segment, nil
}

func (s *MasterSheetService) ListSegments(ctx context.Context, actor *domain.User, departmentID uuid.UUID, search string) ([]*domain.Segment, error) {
	repos := s.store.Repos()
	if _, err := s.department(ctx, repos, actor, departmentID); err != nil {
		return nil, err
	}
	return repos.Departments.ListSegments(ctx, departmentID, search)
}

// writableSegment loads a segment the actor may change. Visibility follows the
// parent department; shared departments are changed by master admins only.
func (s *MasterSheetService) writableSegment(ctx context.Context, r repository.Repositories, actor *domain.User, id uuid.UUID) (*domain.Segment, error) {
	segment, err := r.Departments.GetSegment(ctx, id)
	if err != nil {
		return nil, notFound(err, "Segment")
	}
	department, err := r.Departments.GetDepartment(ctx, segment.DepartmentID)
	if err != nil {
		return nil, notFound(err, "Segment")
	}
	if !CanAccessTenant(actor, department.TenantID) {
		return nil, domain.ErrNotFound("Segment")
	}
	if department.TenantID == nil && !actor.IsMasterAdmin() {
		return nil, domain.ErrPermissionDeniedMsg("Only master admin can change shared departments")
	}
	return segment, nil
}

func (s *MasterSheetService) UpdateSegment(ctx context.Context, actor *domain.User, id uuid.UUID, req UpdateSegmentRequest) (*domain.Segment, error) {
	for field, v := range map[string]*string{"code": req.Code, "name": req.Name} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, domain.ErrFieldValidation(field, field+" may not be blank")
		}
	}

	var segment *domain.Segment
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		if segment, err = s.writableSegment(ctx, r, actor, id); err != nil {
			return err
		}
		if req.Code != nil {
			segment.Code = strings.TrimSpace(*req.Code)
		}
		if req.Name != nil {
			segment.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			segment.Description = *req.Description
		}
		if req.DisplayOrder != nil {
			segment.DisplayOrder = *req.DisplayOrder
		}
		if req.IsActive != nil {
			segment.IsActive = *req.IsActive
		}
		segment.UpdatedAt = s.now()

		if err := r.Departments.UpdateSegment(ctx, segment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return domain.ErrDuplicateCode()
			}
			return notFound(err, "Segment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return segment, nil
}

func (s *MasterSheetService) DeleteSegment(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := s.writableSegment(ctx, r, actor, id); err != nil {
			return err
		}
		return notFound(r.Departments.DeleteSegment(ctx, id), "Segment")
	})
}
