package identity

import (
	"strings"

	"github.com/backoffice/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	// TenantStatusActive means the tenant is operating normally
	TenantStatusActive TenantStatus = "active"
	// TenantStatusInactive means the tenant has been disabled
	TenantStatusInactive TenantStatus = "inactive"
)

// Tenant represents an independent customer organization. All billing state
// is scoped by tenant ID; the billing core only consults the tenant
// directory for existence checks and batch enumeration.
type Tenant struct {
	shared.BaseAggregateRoot
	Code   string
	Name   string
	Status TenantStatus
}

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            TenantStatusActive,
	}, nil
}

// IsActive returns true if the tenant is operating normally
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Deactivate disables the tenant
func (t *Tenant) Deactivate() {
	t.Status = TenantStatusInactive
	t.Touch()
	t.IncrementVersion()
}
