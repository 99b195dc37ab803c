package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice/backend/internal/domain/shared"
)

// WalletRepository defines persistence operations for wallets
type WalletRepository interface {
	// Create inserts a new wallet. A unique constraint on tenant_id turns a
	// lost creation race into shared.ErrAlreadyExists.
	Create(ctx context.Context, wallet *Wallet) error
	// Save persists wallet changes with an optimistic version check and
	// returns shared.ErrConcurrencyConflict when the row was modified by
	// another transaction.
	Save(ctx context.Context, wallet *Wallet) error
	// FindByTenantID returns the tenant's wallet or shared.ErrNotFound
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*Wallet, error)
	// ExistsForTenant reports whether the tenant already has a wallet
	ExistsForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// WalletTransactionRepository defines persistence operations for the
// append-only wallet ledger
type WalletTransactionRepository interface {
	Create(ctx context.Context, transaction *WalletTransaction) error
	// FindByTenantID returns one page of the tenant's transactions,
	// newest-first; the filter's page bounds select the window
	FindByTenantID(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*WalletTransaction, error)
	CountByTenantID(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// SubscriptionPlanRepository defines read access to the plan catalog
type SubscriptionPlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SubscriptionPlan, error)
	FindByCode(ctx context.Context, code string) (*SubscriptionPlan, error)
	FindActive(ctx context.Context) ([]*SubscriptionPlan, error)
	Save(ctx context.Context, plan *SubscriptionPlan) error
}

// TenantSubscriptionRepository defines persistence operations for tenant
// subscription rows
type TenantSubscriptionRepository interface {
	// Create inserts a new subscription row. A partial unique index on
	// (tenant_id) WHERE status = ACTIVE turns a lost activation race into
	// shared.ErrAlreadyExists.
	Create(ctx context.Context, subscription *TenantSubscription) error
	Save(ctx context.Context, subscription *TenantSubscription) error
	// FindActiveByTenantID returns the tenant's ACTIVE row or shared.ErrNotFound
	FindActiveByTenantID(ctx context.Context, tenantID uuid.UUID) (*TenantSubscription, error)
	// FindPendingByTenantID returns the tenant's PENDING_ACTIVATION row or shared.ErrNotFound
	FindPendingByTenantID(ctx context.Context, tenantID uuid.UUID) (*TenantSubscription, error)
	// FindByTenantID returns all of the tenant's rows newest-first
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*TenantSubscription, error)
}

// SubscriptionHistoryRepository defines persistence operations for the
// append-only subscription audit trail
type SubscriptionHistoryRepository interface {
	Create(ctx context.Context, entry *SubscriptionHistory) error
	// FindByTenantID returns the tenant's history entries newest-first
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*SubscriptionHistory, error)
}
