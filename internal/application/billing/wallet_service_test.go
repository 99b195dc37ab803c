package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *billing.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) Save(ctx context.Context, wallet *billing.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*billing.Wallet, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ExistsForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(bool), args.Error(1)
}

// MockWalletTransactionRepository is a mock implementation of WalletTransactionRepository
type MockWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockWalletTransactionRepository) Create(ctx context.Context, transaction *billing.WalletTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.WalletTransaction, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.WalletTransaction), args.Error(1)
}

func (m *MockWalletTransactionRepository) CountByTenantID(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockConfigStore is a mock implementation of the platform ConfigStore
type MockConfigStore struct {
	mock.Mock
}

func (m *MockConfigStore) GetString(ctx context.Context, key, defaultValue string) string {
	args := m.Called(ctx, key, defaultValue)
	return args.String(0)
}

func (m *MockConfigStore) GetDecimal(ctx context.Context, key string, defaultValue decimal.Decimal) decimal.Decimal {
	args := m.Called(ctx, key, defaultValue)
	return args.Get(0).(decimal.Decimal)
}

// =============================================================================
// Test Setup
// =============================================================================

type walletServiceFixture struct {
	service    *WalletService
	walletRepo *MockWalletRepository
	txRepo     *MockWalletTransactionRepository
	config     *MockConfigStore
}

func newWalletServiceFixture() *walletServiceFixture {
	walletRepo := new(MockWalletRepository)
	txRepo := new(MockWalletTransactionRepository)
	config := new(MockConfigStore)
	scope := NewNoOpTransactionScope(walletRepo, txRepo, nil, nil)

	return &walletServiceFixture{
		service:    NewWalletService(scope, config, zap.NewNop()),
		walletRepo: walletRepo,
		txRepo:     txRepo,
		config:     config,
	}
}

func (f *walletServiceFixture) expectInitialConfig(balance decimal.Decimal, currency string) {
	f.config.On("GetDecimal", mock.Anything, billing.ConfigKeyInitialWalletBalance, mock.Anything).Return(balance)
	f.config.On("GetString", mock.Anything, billing.ConfigKeyDefaultCurrency, mock.Anything).Return(currency)
}

func newTestWallet(t *testing.T, tenantID uuid.UUID, balance int64) *billing.Wallet {
	t.Helper()
	wallet, err := billing.NewWallet(tenantID, decimal.NewFromInt(balance), "USD")
	require.NoError(t, err)
	return wallet
}

// =============================================================================
// Tests
// =============================================================================

func TestGetOrCreateWallet(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates wallet with configured initial balance and ledger entry", func(t *testing.T) {
		f := newWalletServiceFixture()
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)
		f.expectInitialConfig(decimal.NewFromInt(100), "USD")
		f.walletRepo.On("Create", ctx, mock.AnythingOfType("*billing.Wallet")).Return(nil)
		f.txRepo.On("Create", ctx, mock.MatchedBy(func(tx *billing.WalletTransaction) bool {
			return tx.Type == billing.WalletTransactionTypeInitialCredit &&
				tx.BalanceBefore.IsZero() &&
				tx.BalanceAfter.Equal(decimal.NewFromInt(100))
		})).Return(nil)

		response, err := f.service.GetOrCreateWallet(ctx, tenantID)
		require.NoError(t, err)

		assert.Equal(t, tenantID, response.TenantID)
		assert.True(t, response.Balance.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "USD", response.Currency)
		f.walletRepo.AssertExpectations(t)
		f.txRepo.AssertExpectations(t)
	})

	t.Run("returns existing wallet without creating", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 42)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)

		response, err := f.service.GetOrCreateWallet(ctx, tenantID)
		require.NoError(t, err)

		assert.True(t, response.Balance.Equal(decimal.NewFromInt(42)))
		f.walletRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("a zero initial balance writes no ledger entry", func(t *testing.T) {
		f := newWalletServiceFixture()
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)
		f.expectInitialConfig(decimal.Zero, "USD")
		f.walletRepo.On("Create", ctx, mock.AnythingOfType("*billing.Wallet")).Return(nil)

		response, err := f.service.GetOrCreateWallet(ctx, tenantID)
		require.NoError(t, err)

		assert.True(t, response.Balance.IsZero())
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("re-reads the winner's wallet after losing a creation race", func(t *testing.T) {
		f := newWalletServiceFixture()
		winner := newTestWallet(t, tenantID, 100)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound).Once()
		f.expectInitialConfig(decimal.NewFromInt(100), "USD")
		f.walletRepo.On("Create", ctx, mock.AnythingOfType("*billing.Wallet")).Return(shared.ErrAlreadyExists)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(winner, nil).Once()

		response, err := f.service.GetOrCreateWallet(ctx, tenantID)
		require.NoError(t, err)

		assert.Equal(t, winner.ID, response.ID)
		f.walletRepo.AssertExpectations(t)
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		f := newWalletServiceFixture()
		_, err := f.service.GetOrCreateWallet(ctx, uuid.Nil)
		require.Error(t, err)
	})
}

func TestWalletServiceCredit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		f := newWalletServiceFixture()

		_, err := f.service.Credit(ctx, tenantID, decimal.Zero, "topup", "", ActorContext{})
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_AMOUNT"))

		_, err = f.service.Credit(ctx, tenantID, decimal.NewFromInt(-5), "topup", "", ActorContext{})
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_AMOUNT"))
	})

	t.Run("credits the wallet and records a ledger entry", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 50)
		actorID := uuid.New()

		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)
		f.walletRepo.On("Save", ctx, wallet).Return(nil)
		f.txRepo.On("Create", ctx, mock.MatchedBy(func(tx *billing.WalletTransaction) bool {
			return tx.Type == billing.WalletTransactionTypeManualCredit &&
				tx.BalanceBefore.Equal(decimal.NewFromInt(50)) &&
				tx.BalanceAfter.Equal(decimal.NewFromInt(80)) &&
				tx.Reference == "ref-1" &&
				tx.ProcessedBy != nil && *tx.ProcessedBy == actorID
		})).Return(nil)

		response, err := f.service.Credit(ctx, tenantID, decimal.NewFromInt(30), "topup", "ref-1", ActorContext{ActorID: &actorID, ActorName: "admin"})
		require.NoError(t, err)

		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(80)))
		assert.True(t, response.BalanceAfter.Equal(decimal.NewFromInt(80)))
		f.txRepo.AssertExpectations(t)
	})

	t.Run("creates the wallet on first credit", func(t *testing.T) {
		f := newWalletServiceFixture()
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)
		f.expectInitialConfig(decimal.Zero, "USD")
		f.walletRepo.On("Create", ctx, mock.AnythingOfType("*billing.Wallet")).Return(nil)
		f.walletRepo.On("Save", ctx, mock.AnythingOfType("*billing.Wallet")).Return(nil)
		f.txRepo.On("Create", ctx, mock.MatchedBy(func(tx *billing.WalletTransaction) bool {
			return tx.Type == billing.WalletTransactionTypeManualCredit &&
				tx.BalanceBefore.IsZero() &&
				tx.BalanceAfter.Equal(decimal.NewFromInt(25))
		})).Return(nil)

		response, err := f.service.Credit(ctx, tenantID, decimal.NewFromInt(25), "topup", "", ActorContext{})
		require.NoError(t, err)
		assert.True(t, response.BalanceAfter.Equal(decimal.NewFromInt(25)))
	})

	t.Run("surfaces a lost optimistic-lock race", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 50)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)
		f.walletRepo.On("Save", ctx, wallet).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.Credit(ctx, tenantID, decimal.NewFromInt(30), "topup", "", ActorContext{})
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
	})
}

func TestWalletServiceDebit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("fails without a wallet", func(t *testing.T) {
		f := newWalletServiceFixture()
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Debit(ctx, tenantID, decimal.NewFromInt(10), "adjustment", "", ActorContext{})
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("fails when amount exceeds balance and changes nothing", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 10)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)

		_, err := f.service.Debit(ctx, tenantID, decimal.NewFromInt(50), "adjustment", "", ActorContext{})

		assert.Equal(t, shared.ErrInsufficientBalance, err)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(10)))
		f.walletRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("debits the wallet and records a ledger entry", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 100)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)
		f.walletRepo.On("Save", ctx, wallet).Return(nil)
		f.txRepo.On("Create", ctx, mock.MatchedBy(func(tx *billing.WalletTransaction) bool {
			return tx.Type == billing.WalletTransactionTypeManualDebit &&
				tx.BalanceBefore.Equal(decimal.NewFromInt(100)) &&
				tx.BalanceAfter.Equal(decimal.NewFromInt(60))
		})).Return(nil)

		response, err := f.service.Debit(ctx, tenantID, decimal.NewFromInt(40), "adjustment", "", ActorContext{})
		require.NoError(t, err)

		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(60)))
		assert.True(t, response.BalanceAfter.Equal(decimal.NewFromInt(60)))
	})

	t.Run("credit then equal debit returns the wallet to its prior balance", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 100)
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)
		f.walletRepo.On("Save", ctx, wallet).Return(nil)
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*billing.WalletTransaction")).Return(nil)

		_, err := f.service.Credit(ctx, tenantID, decimal.NewFromInt(33), "topup", "", ActorContext{})
		require.NoError(t, err)
		_, err = f.service.Debit(ctx, tenantID, decimal.NewFromInt(33), "adjustment", "", ActorContext{})
		require.NoError(t, err)

		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(100)))
	})
}

func TestWalletServiceListTransactions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("requires a wallet", func(t *testing.T) {
		f := newWalletServiceFixture()
		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(nil, shared.ErrNotFound)

		_, err := f.service.ListTransactions(ctx, tenantID, shared.DefaultFilter())
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("returns one page of the tenant ledger with the total", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 100)
		tx, err := billing.CreateInitialCreditTransaction(tenantID, wallet.ID, decimal.NewFromInt(100))
		require.NoError(t, err)
		filter := shared.DefaultFilter()

		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)
		f.txRepo.On("CountByTenantID", ctx, tenantID).Return(int64(1), nil)
		f.txRepo.On("FindByTenantID", ctx, tenantID, filter).Return([]*billing.WalletTransaction{tx}, nil)

		page, err := f.service.ListTransactions(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, billing.WalletTransactionTypeInitialCredit.String(), page.Items[0].Type)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("out-of-range page values fall back to the defaults", func(t *testing.T) {
		f := newWalletServiceFixture()
		wallet := newTestWallet(t, tenantID, 100)

		f.walletRepo.On("FindByTenantID", ctx, tenantID).Return(wallet, nil)
		f.txRepo.On("CountByTenantID", ctx, tenantID).Return(int64(0), nil)
		f.txRepo.On("FindByTenantID", ctx, tenantID, shared.Filter{Page: 1, PageSize: 20}).Return([]*billing.WalletTransaction{}, nil)

		page, err := f.service.ListTransactions(ctx, tenantID, shared.Filter{Page: -3, PageSize: 5000})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.PageSize)
	})
}
