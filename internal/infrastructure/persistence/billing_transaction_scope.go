package persistence

import (
	"context"

	appbilling "github.com/backoffice/backend/internal/application/billing"
	"github.com/backoffice/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// WalletRepo returns the wallet repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WalletRepo() billing.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

// WalletTransactionRepo returns the wallet ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WalletTransactionRepo() billing.WalletTransactionRepository {
	return NewGormWalletTransactionRepository(r.tx)
}

// SubscriptionRepo returns the tenant subscription repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SubscriptionRepo() billing.TenantSubscriptionRepository {
	return NewGormTenantSubscriptionRepository(r.tx)
}

// HistoryRepo returns the subscription history repository scoped to the current transaction.
func (r *gormTransactionalRepositories) HistoryRepo() billing.SubscriptionHistoryRepository {
	return NewGormSubscriptionHistoryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
