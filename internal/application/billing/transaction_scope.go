package billing

import (
	"context"

	"github.com/backoffice/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all billing repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// DDD Aggregate Boundary Notes:
//   - WalletRepo: Repository for the Wallet aggregate root. Balance changes go through
//     optimistic-lock Save; creation relies on the unique tenant constraint.
//   - WalletTransactionRepo: Append-only repository for wallet movement records. A movement
//     row is always written in the same transaction as the wallet save it describes.
//   - SubscriptionRepo: Repository for TenantSubscription rows. Plan changes expire the old
//     row and insert a new one inside one transaction.
//   - HistoryRepo: Append-only repository for subscription transition records.
type TransactionalRepositories interface {
	// WalletRepo returns the wallet repository scoped to the current transaction
	WalletRepo() billing.WalletRepository
	// WalletTransactionRepo returns the wallet transaction repository scoped to the current transaction
	WalletTransactionRepo() billing.WalletTransactionRepository
	// SubscriptionRepo returns the tenant subscription repository scoped to the current transaction
	SubscriptionRepo() billing.TenantSubscriptionRepository
	// HistoryRepo returns the subscription history repository scoped to the current transaction
	HistoryRepo() billing.SubscriptionHistoryRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	walletRepo            billing.WalletRepository
	walletTransactionRepo billing.WalletTransactionRepository
	subscriptionRepo      billing.TenantSubscriptionRepository
	historyRepo           billing.SubscriptionHistoryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	walletRepo billing.WalletRepository,
	walletTransactionRepo billing.WalletTransactionRepository,
	subscriptionRepo billing.TenantSubscriptionRepository,
	historyRepo billing.SubscriptionHistoryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		walletRepo:            walletRepo,
		walletTransactionRepo: walletTransactionRepo,
		subscriptionRepo:      subscriptionRepo,
		historyRepo:           historyRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// WalletRepo returns the wallet repository.
func (s *NoOpTransactionScope) WalletRepo() billing.WalletRepository {
	return s.walletRepo
}

// WalletTransactionRepo returns the wallet transaction repository.
func (s *NoOpTransactionScope) WalletTransactionRepo() billing.WalletTransactionRepository {
	return s.walletTransactionRepo
}

// SubscriptionRepo returns the tenant subscription repository.
func (s *NoOpTransactionScope) SubscriptionRepo() billing.TenantSubscriptionRepository {
	return s.subscriptionRepo
}

// HistoryRepo returns the subscription history repository.
func (s *NoOpTransactionScope) HistoryRepo() billing.SubscriptionHistoryRepository {
	return s.historyRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
