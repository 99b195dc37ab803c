package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletTransactionType represents the type of wallet transaction
type WalletTransactionType string

const (
	// WalletTransactionTypeInitialCredit is the one-time opening credit written at provisioning
	WalletTransactionTypeInitialCredit WalletTransactionType = "INITIAL_CREDIT"
	// WalletTransactionTypeManualCredit represents an operator crediting the wallet (balance increase)
	WalletTransactionTypeManualCredit WalletTransactionType = "MANUAL_CREDIT"
	// WalletTransactionTypeManualDebit represents an operator debiting the wallet (balance decrease)
	WalletTransactionTypeManualDebit WalletTransactionType = "MANUAL_DEBIT"
)

// String returns the string representation of WalletTransactionType
func (t WalletTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t WalletTransactionType) IsValid() bool {
	switch t {
	case WalletTransactionTypeInitialCredit,
		WalletTransactionTypeManualCredit,
		WalletTransactionTypeManualDebit:
		return true
	}
	return false
}

// IsCredit returns true if this transaction type increases the balance
func (t WalletTransactionType) IsCredit() bool {
	switch t {
	case WalletTransactionTypeInitialCredit, WalletTransactionTypeManualCredit:
		return true
	}
	return false
}

// WalletTransaction is an immutable record of a wallet balance change.
// Once created, transactions cannot be modified - corrections must be made
// with new transactions.
type WalletTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	WalletID        uuid.UUID
	Type            WalletTransactionType
	Amount          decimal.Decimal // Always positive, direction determined by type
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	Reason          string
	Reference       string     // External reference code (optional)
	ProcessedBy     *uuid.UUID // User who performed the operation
	TransactionDate time.Time
}

// NewWalletTransaction creates a new wallet transaction
func NewWalletTransaction(
	tenantID, walletID uuid.UUID,
	txType WalletTransactionType,
	amount, balanceBefore, balanceAfter decimal.Decimal,
	reason string,
) (*WalletTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if walletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WALLET", "Wallet ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid wallet transaction type")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if balanceBefore.IsNegative() || balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance cannot be negative")
	}

	return &WalletTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		WalletID:        walletID,
		Type:            txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Reason:          reason,
		TransactionDate: time.Now(),
	}, nil
}

// WithReference sets the external reference for the transaction
func (t *WalletTransaction) WithReference(reference string) *WalletTransaction {
	t.Reference = reference
	return t
}

// WithProcessedBy sets the acting user for the transaction
func (t *WalletTransaction) WithProcessedBy(userID uuid.UUID) *WalletTransaction {
	t.ProcessedBy = &userID
	return t
}

// SignedAmount returns the amount with sign based on transaction type
func (t *WalletTransaction) SignedAmount() decimal.Decimal {
	if t.Type.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// CreateInitialCreditTransaction records the opening credit of a new wallet
func CreateInitialCreditTransaction(
	tenantID, walletID uuid.UUID,
	amount decimal.Decimal,
) (*WalletTransaction, error) {
	return NewWalletTransaction(
		tenantID, walletID,
		WalletTransactionTypeInitialCredit,
		amount,
		decimal.Zero,
		amount,
		"Initial wallet credit",
	)
}

// CreateManualCreditTransaction records an operator credit
func CreateManualCreditTransaction(
	tenantID, walletID uuid.UUID,
	amount, balanceBefore decimal.Decimal,
	reason string,
) (*WalletTransaction, error) {
	return NewWalletTransaction(
		tenantID, walletID,
		WalletTransactionTypeManualCredit,
		amount,
		balanceBefore,
		balanceBefore.Add(amount),
		reason,
	)
}

// CreateManualDebitTransaction records an operator debit
func CreateManualDebitTransaction(
	tenantID, walletID uuid.UUID,
	amount, balanceBefore decimal.Decimal,
	reason string,
) (*WalletTransaction, error) {
	if balanceBefore.LessThan(amount) {
		return nil, shared.ErrInsufficientBalance
	}
	return NewWalletTransaction(
		tenantID, walletID,
		WalletTransactionTypeManualDebit,
		amount,
		balanceBefore,
		balanceBefore.Sub(amount),
		reason,
	)
}
