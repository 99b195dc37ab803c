package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletStatus represents the status of a tenant wallet
type WalletStatus string

const (
	// WalletStatusActive means the wallet accepts credits and debits
	WalletStatusActive WalletStatus = "ACTIVE"
	// WalletStatusFrozen means the wallet rejects all balance mutations
	WalletStatusFrozen WalletStatus = "FROZEN"
)

// String returns the string representation of WalletStatus
func (s WalletStatus) String() string {
	return string(s)
}

// IsValid returns true if the wallet status is valid
func (s WalletStatus) IsValid() bool {
	switch s {
	case WalletStatusActive, WalletStatusFrozen:
		return true
	}
	return false
}

// Wallet is the per-tenant store-credit balance. Exactly one wallet exists
// per tenant; the balance always equals the running sum of the signed
// amounts of its transactions, starting from the initial credit.
type Wallet struct {
	shared.TenantAggregateRoot
	Balance           decimal.Decimal
	Currency          string
	Status            WalletStatus
	LastTransactionAt *time.Time
}

// NewWallet creates a wallet for a tenant with the given opening balance.
// The opening balance is recorded separately as an initial-credit transaction.
func NewWallet(tenantID uuid.UUID, initialBalance decimal.Decimal, currency string) (*Wallet, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if initialBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Initial balance cannot be negative")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	return &Wallet{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Balance:             initialBalance,
		Currency:            currency,
		Status:              WalletStatusActive,
	}, nil
}

// Credit increases the wallet balance. Amount must be positive.
func (w *Wallet) Credit(amount decimal.Decimal) error {
	if err := w.checkMutable(amount); err != nil {
		return err
	}
	w.Balance = w.Balance.Add(amount)
	w.recordMutation()
	return nil
}

// Debit decreases the wallet balance. Amount must be positive and must not
// exceed the current balance; the balance never goes negative.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if err := w.checkMutable(amount); err != nil {
		return err
	}
	if w.Balance.LessThan(amount) {
		return shared.ErrInsufficientBalance
	}
	w.Balance = w.Balance.Sub(amount)
	w.recordMutation()
	return nil
}

// Freeze blocks further balance mutations
func (w *Wallet) Freeze() {
	w.Status = WalletStatusFrozen
	w.Touch()
	w.IncrementVersion()
}

// Unfreeze re-enables balance mutations
func (w *Wallet) Unfreeze() {
	w.Status = WalletStatusActive
	w.Touch()
	w.IncrementVersion()
}

// IsFrozen returns true if the wallet rejects balance mutations
func (w *Wallet) IsFrozen() bool {
	return w.Status == WalletStatusFrozen
}

func (w *Wallet) checkMutable(amount decimal.Decimal) error {
	if w.IsFrozen() {
		return shared.NewDomainError("INVALID_STATE", "Wallet is frozen")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	return nil
}

func (w *Wallet) recordMutation() {
	now := time.Now()
	w.LastTransactionAt = &now
	w.Touch()
	w.IncrementVersion()
}
