package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
)

// WalletService handles tenant wallet operations. Every mutation writes the
// wallet and its ledger entry in one transaction scope; the wallet save uses
// an optimistic version check, so a lost write race surfaces as
// CONCURRENCY_CONFLICT for the caller to retry.
type WalletService struct {
	scope          TransactionScope
	config         billing.ConfigStore
	logger         *zap.Logger
	billingMetrics *telemetry.BillingMetrics
}

// NewWalletService creates a new WalletService
func NewWalletService(scope TransactionScope, config billing.ConfigStore, logger *zap.Logger) *WalletService {
	return &WalletService{
		scope:  scope,
		config: config,
		logger: logger,
	}
}

// SetBillingMetrics sets the billing metrics collector
func (s *WalletService) SetBillingMetrics(bm *telemetry.BillingMetrics) {
	s.billingMetrics = bm
}

// GetOrCreateWallet returns the tenant's wallet, creating it on first use.
// A new wallet opens with the platform's configured initial balance and
// currency, recorded as an INITIAL_CREDIT ledger entry in the same
// transaction. Losing a concurrent creation race is not an error: the loser
// re-reads and returns the winner's wallet.
func (s *WalletService) GetOrCreateWallet(ctx context.Context, tenantID uuid.UUID) (*WalletResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}

	var wallet *billing.Wallet
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		wallet, err = s.findOrCreateWallet(ctx, repos, tenantID)
		return err
	})
	if err == shared.ErrAlreadyExists {
		// Lost the creation race. The winner's row is committed, read it back.
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var findErr error
			wallet, findErr = repos.WalletRepo().FindByTenantID(ctx, tenantID)
			return findErr
		})
	}
	if err != nil {
		return nil, err
	}

	response := ToWalletResponse(wallet)
	return &response, nil
}

// Credit adds funds to the tenant's wallet. The wallet is created on demand;
// the balance change and its MANUAL_CREDIT ledger entry commit atomically.
func (s *WalletService) Credit(
	ctx context.Context,
	tenantID uuid.UUID,
	amount decimal.Decimal,
	reason, reference string,
	actor ActorContext,
) (*WalletTransactionResponse, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	var transaction *billing.WalletTransaction
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		wallet, err := s.findOrCreateWallet(ctx, repos, tenantID)
		if err != nil {
			return err
		}

		balanceBefore := wallet.Balance
		if err := wallet.Credit(amount); err != nil {
			return err
		}

		transaction, err = billing.CreateManualCreditTransaction(tenantID, wallet.ID, amount, balanceBefore, reason)
		if err != nil {
			return err
		}
		if reference != "" {
			transaction.WithReference(reference)
		}
		if actor.ActorID != nil {
			transaction.WithProcessedBy(*actor.ActorID)
		}

		if err := repos.WalletRepo().Save(ctx, wallet); err != nil {
			return err
		}
		return repos.WalletTransactionRepo().Create(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	if s.billingMetrics != nil {
		s.billingMetrics.RecordWalletTransaction(ctx, tenantID, string(transaction.Type), amount)
	}

	s.logger.Info("wallet credited",
		zap.String("tenant_id", tenantID.String()),
		zap.String("amount", amount.String()),
		zap.String("actor", actor.ActorName))

	response := ToWalletTransactionResponse(transaction)
	return &response, nil
}

// Debit removes funds from the tenant's wallet. The wallet must already
// exist; a debit exceeding the balance fails with INSUFFICIENT_BALANCE and
// changes nothing.
func (s *WalletService) Debit(
	ctx context.Context,
	tenantID uuid.UUID,
	amount decimal.Decimal,
	reason, reference string,
	actor ActorContext,
) (*WalletTransactionResponse, error) {
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	var transaction *billing.WalletTransaction
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		wallet, err := repos.WalletRepo().FindByTenantID(ctx, tenantID)
		if err != nil {
			return err
		}

		balanceBefore := wallet.Balance
		if err := wallet.Debit(amount); err != nil {
			return err
		}

		transaction, err = billing.CreateManualDebitTransaction(tenantID, wallet.ID, amount, balanceBefore, reason)
		if err != nil {
			return err
		}
		if reference != "" {
			transaction.WithReference(reference)
		}
		if actor.ActorID != nil {
			transaction.WithProcessedBy(*actor.ActorID)
		}

		if err := repos.WalletRepo().Save(ctx, wallet); err != nil {
			return err
		}
		return repos.WalletTransactionRepo().Create(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	if s.billingMetrics != nil {
		s.billingMetrics.RecordWalletTransaction(ctx, tenantID, string(transaction.Type), amount)
	}

	s.logger.Info("wallet debited",
		zap.String("tenant_id", tenantID.String()),
		zap.String("amount", amount.String()),
		zap.String("actor", actor.ActorName))

	response := ToWalletTransactionResponse(transaction)
	return &response, nil
}

// GetWallet returns the tenant's wallet without creating one
func (s *WalletService) GetWallet(ctx context.Context, tenantID uuid.UUID) (*WalletResponse, error) {
	var wallet *billing.Wallet
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var findErr error
		wallet, findErr = repos.WalletRepo().FindByTenantID(ctx, tenantID)
		return findErr
	})
	if err != nil {
		return nil, err
	}

	response := ToWalletResponse(wallet)
	return &response, nil
}

// ListTransactions returns one page of the tenant's ledger entries, newest
// first, with the total count for pagination. A tenant without a wallet has
// no ledger and gets NotFound.
func (s *WalletService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[WalletTransactionResponse], error) {
	filter = filter.Normalized()

	var transactions []*billing.WalletTransaction
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.WalletRepo().FindByTenantID(ctx, tenantID); err != nil {
			return err
		}
		var listErr error
		if total, listErr = repos.WalletTransactionRepo().CountByTenantID(ctx, tenantID); listErr != nil {
			return listErr
		}
		transactions, listErr = repos.WalletTransactionRepo().FindByTenantID(ctx, tenantID, filter)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToWalletTransactionResponses(transactions), total, filter.Page, filter.PageSize)
	return &page, nil
}

// findOrCreateWallet reads the tenant's wallet within the current transaction,
// creating it with the configured opening balance when absent. The initial
// credit ledger entry is written only when the opening balance is positive.
func (s *WalletService) findOrCreateWallet(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID uuid.UUID,
) (*billing.Wallet, error) {
	wallet, err := repos.WalletRepo().FindByTenantID(ctx, tenantID)
	if err == nil {
		return wallet, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}

	initialBalance := s.config.GetDecimal(ctx, billing.ConfigKeyInitialWalletBalance, decimal.Zero)
	currency := s.config.GetString(ctx, billing.ConfigKeyDefaultCurrency, "USD")

	wallet, err = billing.NewWallet(tenantID, initialBalance, currency)
	if err != nil {
		return nil, err
	}

	if err := repos.WalletRepo().Create(ctx, wallet); err != nil {
		return nil, err
	}

	if initialBalance.IsPositive() {
		initialTx, err := billing.CreateInitialCreditTransaction(tenantID, wallet.ID, initialBalance)
		if err != nil {
			return nil, err
		}
		if err := repos.WalletTransactionRepo().Create(ctx, initialTx); err != nil {
			return nil, err
		}
	}

	s.logger.Info("wallet created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("initial_balance", initialBalance.String()),
		zap.String("currency", currency))

	return wallet, nil
}
