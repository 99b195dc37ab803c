package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	// Exists reports whether a tenant with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// ListIDs returns the IDs of all tenants, used for batch provisioning repair
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}
