package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CodeKind selects a sequential code family
type CodeKind string

const (
	CodeKindBuyer  CodeKind = "buyer"
	CodeKindVendor CodeKind = "vendor"
)

// FirstSequenceNumber is the first number handed out in every scope
const FirstSequenceNumber = 101

const buyerSuffix = "A"

// FormatCode renders n in the family's format: 101A for buyers, 101 for vendors
func (k CodeKind) FormatCode(n int) string {
	if k == CodeKindBuyer {
		return strconv.Itoa(n) + buyerSuffix
	}
	return strconv.Itoa(n)
}

// ParseCode extracts the sequence number, stripping the non-numeric suffix
func (k CodeKind) ParseCode(code string) (int, bool) {
	digits := strings.TrimRightFunc(strings.TrimSpace(code), func(r rune) bool {
		return r < '0' || r > '9'
	})
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextCode returns the code following the highest parseable one in codes
func (k CodeKind) NextCode(codes []string) string {
	next := FirstSequenceNumber
	for _, c := range codes {
		if n, ok := k.ParseCode(c); ok && n+1 > next {
			next = n + 1
		}
	}
	return k.FormatCode(next)
}

type BuyerCode struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Code          string     `json:"code" db:"code"`
	BuyerName     string     `json:"buyer_name" db:"buyer_name"`
	BuyerAddress  string     `json:"buyer_address" db:"buyer_address"`
	ContactPerson string     `json:"contact_person" db:"contact_person"`
	Retailer      string     `json:"retailer" db:"retailer"`
	TenantID      *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	CreatedBy     *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type VendorCode struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Code               string     `json:"code" db:"code"`
	VendorName         string     `json:"vendor_name" db:"vendor_name"`
	Address            string     `json:"address" db:"address"`
	GST                string     `json:"gst" db:"gst"`
	ContactPerson      string     `json:"contact_person" db:"contact_person"`
	Email              string     `json:"email" db:"email"`
	WhatsappNumber     string     `json:"whatsapp_number" db:"whatsapp_number"`
	AltWhatsappNumber  *string    `json:"alt_whatsapp_number" db:"alt_whatsapp_number"`
	BankName           string     `json:"bank_name" db:"bank_name"`
	AccountNumber      string     `json:"account_number" db:"account_number"`
	IFSCCode           string     `json:"ifsc_code" db:"ifsc_code"`
	JobWorkCategory    string     `json:"job_work_category" db:"job_work_category"`
	JobWorkSubCategory string     `json:"job_work_sub_category" db:"job_work_sub_category"`
	PaymentTerms       string     `json:"payment_terms" db:"payment_terms"`
	TenantID           *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	CreatedBy          *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// Department groups segments in the IMS menu. A nil tenant is shared.
type Department struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Code         string     `json:"code" db:"code"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	TenantID     *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	CreatedBy    *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Segment codes are unique within their department
type Segment struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	DepartmentID uuid.UUID  `json:"department_id" db:"department_id"`
	Code         string     `json:"code" db:"code"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedBy    *uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
