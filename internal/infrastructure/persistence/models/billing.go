package models

import (
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletModel is the persistence model for the Wallet aggregate.
// The unique index on tenant_id enforces one wallet per tenant; a lost
// creation race surfaces as a duplicate-key error on insert.
type WalletModel struct {
	AggregateModel
	TenantID          uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	Balance           decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency          string               `gorm:"type:varchar(10);not null"`
	Status            billing.WalletStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	LastTransactionAt *time.Time
}

// TableName returns the table name for GORM
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts the persistence model to a domain Wallet aggregate.
func (m *WalletModel) ToDomain() *billing.Wallet {
	return &billing.Wallet{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			TenantID:          m.TenantID,
		},
		Balance:           m.Balance,
		Currency:          m.Currency,
		Status:            m.Status,
		LastTransactionAt: m.LastTransactionAt,
	}
}

// WalletModelFromDomain creates a persistence model from a domain Wallet.
func WalletModelFromDomain(w *billing.Wallet) *WalletModel {
	m := &WalletModel{}
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	m.TenantID = w.TenantID
	m.Balance = w.Balance
	m.Currency = w.Currency
	m.Status = w.Status
	m.LastTransactionAt = w.LastTransactionAt
	return m
}

// WalletTransactionModel is the persistence model for the append-only
// wallet ledger. Rows are never updated or deleted.
type WalletTransactionModel struct {
	BaseModel
	TenantID        uuid.UUID                     `gorm:"type:uuid;not null;index"`
	WalletID        uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Type            billing.WalletTransactionType `gorm:"type:varchar(30);not null"`
	Amount          decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	Reason          string                        `gorm:"type:varchar(500);not null"`
	Reference       string                        `gorm:"type:varchar(100)"`
	ProcessedBy     *uuid.UUID                    `gorm:"type:uuid"`
	TransactionDate time.Time                     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain WalletTransaction.
func (m *WalletTransactionModel) ToDomain() *billing.WalletTransaction {
	return &billing.WalletTransaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		TenantID:        m.TenantID,
		WalletID:        m.WalletID,
		Type:            m.Type,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		Reason:          m.Reason,
		Reference:       m.Reference,
		ProcessedBy:     m.ProcessedBy,
		TransactionDate: m.TransactionDate,
	}
}

// WalletTransactionModelFromDomain creates a persistence model from a domain WalletTransaction.
func WalletTransactionModelFromDomain(t *billing.WalletTransaction) *WalletTransactionModel {
	m := &WalletTransactionModel{}
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.WalletID = t.WalletID
	m.Type = t.Type
	m.Amount = t.Amount
	m.BalanceBefore = t.BalanceBefore
	m.BalanceAfter = t.BalanceAfter
	m.Reason = t.Reason
	m.Reference = t.Reference
	m.ProcessedBy = t.ProcessedBy
	m.TransactionDate = t.TransactionDate
	return m
}

// SubscriptionPlanModel is the persistence model for the plan catalog.
type SubscriptionPlanModel struct {
	BaseModel
	Code               string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string               `gorm:"type:varchar(200);not null"`
	Price              decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency           string               `gorm:"type:varchar(10);not null"`
	BillingCycle       billing.BillingCycle `gorm:"type:varchar(20);not null"`
	DiscountPercentage decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
	IsStandard         bool                 `gorm:"not null;default:false"`
	IsActive           bool                 `gorm:"not null;default:true"`
	ValidFrom          *time.Time
	ValidUntil         *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionPlanModel) TableName() string {
	return "subscription_plans"
}

// ToDomain converts the persistence model to a domain SubscriptionPlan.
func (m *SubscriptionPlanModel) ToDomain() *billing.SubscriptionPlan {
	return &billing.SubscriptionPlan{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Price:              m.Price,
		Currency:           m.Currency,
		BillingCycle:       m.BillingCycle,
		DiscountPercentage: m.DiscountPercentage,
		IsStandard:         m.IsStandard,
		IsActive:           m.IsActive,
		ValidFrom:          m.ValidFrom,
		ValidUntil:         m.ValidUntil,
	}
}

// SubscriptionPlanModelFromDomain creates a persistence model from a domain SubscriptionPlan.
func SubscriptionPlanModelFromDomain(p *billing.SubscriptionPlan) *SubscriptionPlanModel {
	m := &SubscriptionPlanModel{}
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Code = p.Code
	m.Name = p.Name
	m.Price = p.Price
	m.Currency = p.Currency
	m.BillingCycle = p.BillingCycle
	m.DiscountPercentage = p.DiscountPercentage
	m.IsStandard = p.IsStandard
	m.IsActive = p.IsActive
	m.ValidFrom = p.ValidFrom
	m.ValidUntil = p.ValidUntil
	return m
}

// TenantSubscriptionModel is the persistence model for tenant subscription
// rows. The at-most-one-ACTIVE-row-per-tenant rule is enforced by a partial
// unique index created in migrations; GORM tags cannot express it.
type TenantSubscriptionModel struct {
	AggregateModel
	TenantID           uuid.UUID                  `gorm:"type:uuid;not null;index"`
	PlanID             uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Status             billing.SubscriptionStatus `gorm:"type:varchar(30);not null"`
	StartDate          time.Time                  `gorm:"not null"`
	EndDate            *time.Time
	NextBillingDate    *time.Time
	PricePaid          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentReference   string          `gorm:"type:varchar(100)"`
	ActivatedBy        *uuid.UUID      `gorm:"type:uuid"`
	ActivatedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TenantSubscriptionModel) TableName() string {
	return "tenant_subscriptions"
}

// ToDomain converts the persistence model to a domain TenantSubscription.
func (m *TenantSubscriptionModel) ToDomain() *billing.TenantSubscription {
	return &billing.TenantSubscription{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: m.ToDomainAggregateRoot(),
			TenantID:          m.TenantID,
		},
		PlanID:             m.PlanID,
		Status:             m.Status,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		NextBillingDate:    m.NextBillingDate,
		PricePaid:          m.PricePaid,
		PaymentReference:   m.PaymentReference,
		ActivatedBy:        m.ActivatedBy,
		ActivatedAt:        m.ActivatedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: m.CancellationReason,
	}
}

// TenantSubscriptionModelFromDomain creates a persistence model from a domain TenantSubscription.
func TenantSubscriptionModelFromDomain(s *billing.TenantSubscription) *TenantSubscriptionModel {
	m := &TenantSubscriptionModel{}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.TenantID = s.TenantID
	m.PlanID = s.PlanID
	m.Status = s.Status
	m.StartDate = s.StartDate
	m.EndDate = s.EndDate
	m.NextBillingDate = s.NextBillingDate
	m.PricePaid = s.PricePaid
	m.PaymentReference = s.PaymentReference
	m.ActivatedBy = s.ActivatedBy
	m.ActivatedAt = s.ActivatedAt
	m.CancelledAt = s.CancelledAt
	m.CancellationReason = s.CancellationReason
	return m
}

// SubscriptionHistoryModel is the persistence model for the append-only
// subscription audit trail.
type SubscriptionHistoryModel struct {
	BaseModel
	TenantID       uuid.UUID                         `gorm:"type:uuid;not null;index"`
	SubscriptionID uuid.UUID                         `gorm:"type:uuid;not null;index"`
	OldPlanID      *uuid.UUID                        `gorm:"type:uuid"`
	NewPlanID      *uuid.UUID                        `gorm:"type:uuid"`
	Action         billing.SubscriptionHistoryAction `gorm:"type:varchar(30);not null"`
	Notes          string                            `gorm:"type:text"`
	PerformedBy    *uuid.UUID                        `gorm:"type:uuid"`
	PerformedAt    time.Time                         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SubscriptionHistoryModel) TableName() string {
	return "subscription_history"
}

// ToDomain converts the persistence model to a domain SubscriptionHistory entry.
func (m *SubscriptionHistoryModel) ToDomain() *billing.SubscriptionHistory {
	return &billing.SubscriptionHistory{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		SubscriptionID: m.SubscriptionID,
		OldPlanID:      m.OldPlanID,
		NewPlanID:      m.NewPlanID,
		Action:         m.Action,
		Notes:          m.Notes,
		PerformedBy:    m.PerformedBy,
		PerformedAt:    m.PerformedAt,
	}
}

// SubscriptionHistoryModelFromDomain creates a persistence model from a domain SubscriptionHistory.
func SubscriptionHistoryModelFromDomain(h *billing.SubscriptionHistory) *SubscriptionHistoryModel {
	m := &SubscriptionHistoryModel{}
	m.FromDomainBaseEntity(h.BaseEntity)
	m.TenantID = h.TenantID
	m.SubscriptionID = h.SubscriptionID
	m.OldPlanID = h.OldPlanID
	m.NewPlanID = h.NewPlanID
	m.Action = h.Action
	m.Notes = h.Notes
	m.PerformedBy = h.PerformedBy
	m.PerformedAt = h.PerformedAt
	return m
}
