package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/shared"
)

func TestNewWallet(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates wallet successfully", func(t *testing.T) {
		wallet, err := NewWallet(tenantID, decimal.NewFromInt(500), "TND")
		require.NoError(t, err)

		assert.Equal(t, tenantID, wallet.TenantID)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, "TND", wallet.Currency)
		assert.Equal(t, WalletStatusActive, wallet.Status)
		assert.Nil(t, wallet.LastTransactionAt)
		assert.Equal(t, 1, wallet.Version)
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		_, err := NewWallet(uuid.Nil, decimal.Zero, "USD")
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_TENANT"))
	})

	t.Run("rejects negative initial balance", func(t *testing.T) {
		_, err := NewWallet(tenantID, decimal.NewFromInt(-1), "USD")
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_BALANCE"))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewWallet(tenantID, decimal.Zero, "")
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_CURRENCY"))
	})

	t.Run("allows zero initial balance", func(t *testing.T) {
		wallet, err := NewWallet(tenantID, decimal.Zero, "USD")
		require.NoError(t, err)
		assert.True(t, wallet.Balance.IsZero())
	})
}

func TestWalletCredit(t *testing.T) {
	newWallet := func(t *testing.T, balance int64) *Wallet {
		t.Helper()
		wallet, err := NewWallet(uuid.New(), decimal.NewFromInt(balance), "USD")
		require.NoError(t, err)
		return wallet
	}

	t.Run("increases balance", func(t *testing.T) {
		wallet := newWallet(t, 500)

		err := wallet.Credit(decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(600)))
		assert.NotNil(t, wallet.LastTransactionAt)
		assert.Equal(t, 2, wallet.Version)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		wallet := newWallet(t, 500)
		err := wallet.Credit(decimal.Zero)
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_AMOUNT"))
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		wallet := newWallet(t, 500)
		err := wallet.Credit(decimal.NewFromInt(-10))
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_AMOUNT"))
	})

	t.Run("rejects credit on frozen wallet", func(t *testing.T) {
		wallet := newWallet(t, 500)
		wallet.Freeze()

		err := wallet.Credit(decimal.NewFromInt(100))
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_STATE"))
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(500)))
	})
}

func TestWalletDebit(t *testing.T) {
	newWallet := func(t *testing.T, balance int64) *Wallet {
		t.Helper()
		wallet, err := NewWallet(uuid.New(), decimal.NewFromInt(balance), "USD")
		require.NoError(t, err)
		return wallet
	}

	t.Run("decreases balance", func(t *testing.T) {
		wallet := newWallet(t, 500)

		err := wallet.Debit(decimal.NewFromInt(200))
		require.NoError(t, err)

		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(300)))
	})

	t.Run("fails when amount exceeds balance", func(t *testing.T) {
		wallet := newWallet(t, 500)

		err := wallet.Debit(decimal.NewFromInt(600))
		require.Error(t, err)
		assert.Equal(t, shared.ErrInsufficientBalance, err)
		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("allows debiting the full balance", func(t *testing.T) {
		wallet := newWallet(t, 500)

		err := wallet.Debit(decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.True(t, wallet.Balance.IsZero())
	})

	t.Run("credit then debit returns to prior balance", func(t *testing.T) {
		wallet := newWallet(t, 500)

		require.NoError(t, wallet.Credit(decimal.NewFromInt(75)))
		require.NoError(t, wallet.Debit(decimal.NewFromInt(75)))

		assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(500)))
	})

	t.Run("rejects debit on frozen wallet", func(t *testing.T) {
		wallet := newWallet(t, 500)
		wallet.Freeze()

		err := wallet.Debit(decimal.NewFromInt(100))
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_STATE"))
	})
}

func TestWalletStatus(t *testing.T) {
	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, WalletStatusActive.IsValid())
		assert.True(t, WalletStatusFrozen.IsValid())
		assert.False(t, WalletStatus("SUSPENDED").IsValid())
	})

	t.Run("freeze and unfreeze", func(t *testing.T) {
		wallet, err := NewWallet(uuid.New(), decimal.Zero, "USD")
		require.NoError(t, err)

		wallet.Freeze()
		assert.True(t, wallet.IsFrozen())

		wallet.Unfreeze()
		assert.False(t, wallet.IsFrozen())
	})
}
