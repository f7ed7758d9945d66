package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PermissionCategory string

const (
	CategoryMasterSheets PermissionCategory = "master_sheets"
	CategoryIMS          PermissionCategory = "ims"
	CategorySourcing     PermissionCategory = "sourcing"
	CategoryCommunity    PermissionCategory = "community"
	CategoryReports      PermissionCategory = "reports"
	CategorySettings     PermissionCategory = "settings"
	CategoryMembers      PermissionCategory = "members"
)

func (c PermissionCategory) Valid() bool {
	switch c {
	case CategoryMasterSheets, CategoryIMS, CategorySourcing, CategoryCommunity,
		CategoryReports, CategorySettings, CategoryMembers:
		return true
	}
	return false
}

type PermissionAction string

const (
	ActionView    PermissionAction = "view"
	ActionCreate  PermissionAction = "create"
	ActionEdit    PermissionAction = "edit"
	ActionDelete  PermissionAction = "delete"
	ActionExport  PermissionAction = "export"
	ActionApprove PermissionAction = "approve"
)

func (a PermissionAction) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport, ActionApprove:
		return true
	}
	return false
}

// Permission is a global catalog entry, unique on (category, action, resource)
type Permission struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	Category    PermissionCategory `json:"category" db:"category"`
	Action      PermissionAction   `json:"action" db:"action"`
	Resource    string             `json:"resource" db:"resource"`
	Description string             `json:"description" db:"description"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

// Key identifies a permission independently of its id
func (p Permission) Key() PermissionKey {
	return PermissionKey{Category: p.Category, Resource: p.Resource, Action: p.Action}
}

type PermissionKey struct {
	Category PermissionCategory
	Resource string
	Action   PermissionAction
}

// Grant is a RolePermission row: at most one per (user, permission)
type Grant struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	PermissionID uuid.UUID  `json:"permission_id" db:"permission_id"`
	IsEnabled    bool       `json:"is_enabled" db:"is_enabled"`
	GrantedBy    *uuid.UUID `json:"granted_by,omitempty" db:"granted_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// GrantDetail is a grant joined with its catalog entry
type GrantDetail struct {
	Grant
	Permission Permission `db:"permission"`
}

type catalogGroup struct {
	category  PermissionCategory
	resources []string
	actions   []PermissionAction
}

var crud = []PermissionAction{ActionView, ActionCreate, ActionEdit, ActionDelete}

var defaultCatalog = []catalogGroup{
	{CategoryMasterSheets, []string{"buyer_master", "vendor_master"}, append(append([]PermissionAction{}, crud...), ActionExport)},
	{CategoryIMS, []string{"departments", "segments", "buyer_codes", "vendor_codes"}, crud},
	{CategorySourcing, []string{"yarn", "fabric", "dye"}, crud},
}

// DefaultPermissions returns the seed catalog. Ids are left zero.
func DefaultPermissions() []Permission {
	var out []Permission
	for _, g := range defaultCatalog {
		for _, resource := range g.resources {
			for _, action := range g.actions {
				out = append(out, Permission{
					Category:    g.category,
					Action:      action,
					Resource:    resource,
					Description: describe(action, resource),
				})
			}
		}
	}
	return out
}

func describe(action PermissionAction, resource string) string {
	verb := string(action)
	return strings.ToUpper(verb[:1]) + verb[1:] + " " + strings.ReplaceAll(resource, "_", " ")
}
