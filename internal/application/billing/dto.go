package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/backend/internal/domain/billing"
)

// CreditWalletRequest represents a request to credit a tenant wallet
type CreditWalletRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reason    string          `json:"reason" binding:"required,min=1,max=500"`
	Reference string          `json:"reference" binding:"max=100"`
}

// DebitWalletRequest represents a request to debit a tenant wallet
type DebitWalletRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reason    string          `json:"reason" binding:"required,min=1,max=500"`
	Reference string          `json:"reference" binding:"max=100"`
}

// ActivateSubscriptionRequest represents a request to put a tenant on a plan
type ActivateSubscriptionRequest struct {
	PlanID           uuid.UUID        `json:"plan_id" binding:"required"`
	PricePaid        *decimal.Decimal `json:"price_paid"`
	PaymentReference string           `json:"payment_reference" binding:"max=100"`
}

// WalletResponse represents a tenant wallet in API responses
type WalletResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Balance           decimal.Decimal `json:"balance"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// WalletTransactionResponse represents a wallet ledger entry in API responses
type WalletTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	WalletID        uuid.UUID       `json:"wallet_id"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Reason          string          `json:"reason"`
	Reference       string          `json:"reference"`
	ProcessedBy     *uuid.UUID      `json:"processed_by,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SubscriptionResponse represents a tenant subscription in API responses
type SubscriptionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	PlanID             uuid.UUID       `json:"plan_id"`
	Status             string          `json:"status"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	NextBillingDate    *time.Time      `json:"next_billing_date,omitempty"`
	PricePaid          decimal.Decimal `json:"price_paid"`
	PaymentReference   string          `json:"payment_reference"`
	ActivatedBy        *uuid.UUID      `json:"activated_by,omitempty"`
	ActivatedAt        *time.Time      `json:"activated_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SubscriptionHistoryResponse represents a subscription transition in API responses
type SubscriptionHistoryResponse struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	SubscriptionID uuid.UUID  `json:"subscription_id"`
	OldPlanID      *uuid.UUID `json:"old_plan_id,omitempty"`
	NewPlanID      *uuid.UUID `json:"new_plan_id,omitempty"`
	Action         string     `json:"action"`
	Notes          string     `json:"notes"`
	PerformedBy    *uuid.UUID `json:"performed_by,omitempty"`
	PerformedAt    time.Time  `json:"performed_at"`
}

// SubscriptionPlanResponse represents a plan catalog entry in API responses
type SubscriptionPlanResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	EffectivePrice     decimal.Decimal `json:"effective_price"`
	Currency           string          `json:"currency"`
	BillingCycle       string          `json:"billing_cycle"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	IsStandard         bool            `json:"is_standard"`
	IsActive           bool            `json:"is_active"`
}

// ProvisioningFailure records one tenant that a batch provisioning run could not repair
type ProvisioningFailure struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Error    string    `json:"error"`
}

// ProvisioningReport summarizes a batch provisioning run. The run is
// best-effort: failures are collected per tenant instead of aborting the batch.
type ProvisioningReport struct {
	Total       int                   `json:"total"`
	Provisioned int                   `json:"provisioned"`
	Failed      int                   `json:"failed"`
	Failures    []ProvisioningFailure `json:"failures,omitempty"`
}

// ToWalletResponse converts a domain Wallet to WalletResponse
func ToWalletResponse(w *billing.Wallet) WalletResponse {
	return WalletResponse{
		ID:                w.ID,
		TenantID:          w.TenantID,
		Balance:           w.Balance,
		Currency:          w.Currency,
		Status:            string(w.Status),
		LastTransactionAt: w.LastTransactionAt,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

// ToWalletTransactionResponse converts a domain WalletTransaction to WalletTransactionResponse
func ToWalletTransactionResponse(t *billing.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:              t.ID,
		TenantID:        t.TenantID,
		WalletID:        t.WalletID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		Reason:          t.Reason,
		Reference:       t.Reference,
		ProcessedBy:     t.ProcessedBy,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
}

// ToWalletTransactionResponses converts a slice of domain WalletTransactions
func ToWalletTransactionResponses(transactions []*billing.WalletTransaction) []WalletTransactionResponse {
	responses := make([]WalletTransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = ToWalletTransactionResponse(t)
	}
	return responses
}

// ToSubscriptionResponse converts a domain TenantSubscription to SubscriptionResponse
func ToSubscriptionResponse(s *billing.TenantSubscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                 s.ID,
		TenantID:           s.TenantID,
		PlanID:             s.PlanID,
		Status:             string(s.Status),
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		NextBillingDate:    s.NextBillingDate,
		PricePaid:          s.PricePaid,
		PaymentReference:   s.PaymentReference,
		ActivatedBy:        s.ActivatedBy,
		ActivatedAt:        s.ActivatedAt,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt,
	}
}

// ToSubscriptionHistoryResponse converts a domain SubscriptionHistory to SubscriptionHistoryResponse
func ToSubscriptionHistoryResponse(h *billing.SubscriptionHistory) SubscriptionHistoryResponse {
	return SubscriptionHistoryResponse{
		ID:             h.ID,
		TenantID:       h.TenantID,
		SubscriptionID: h.SubscriptionID,
		OldPlanID:      h.OldPlanID,
		NewPlanID:      h.NewPlanID,
		Action:         string(h.Action),
		Notes:          h.Notes,
		PerformedBy:    h.PerformedBy,
		PerformedAt:    h.PerformedAt,
	}
}

// ToSubscriptionHistoryResponses converts a slice of domain SubscriptionHistory entries
func ToSubscriptionHistoryResponses(entries []*billing.SubscriptionHistory) []SubscriptionHistoryResponse {
	responses := make([]SubscriptionHistoryResponse, len(entries))
	for i, h := range entries {
		responses[i] = ToSubscriptionHistoryResponse(h)
	}
	return responses
}

// ToSubscriptionPlanResponse converts a domain SubscriptionPlan to SubscriptionPlanResponse
func ToSubscriptionPlanResponse(p *billing.SubscriptionPlan) SubscriptionPlanResponse {
	return SubscriptionPlanResponse{
		ID:                 p.ID,
		Code:               p.Code,
		Name:               p.Name,
		Price:              p.Price,
		EffectivePrice:     p.EffectivePrice(),
		Currency:           p.Currency,
		BillingCycle:       string(p.BillingCycle),
		DiscountPercentage: p.DiscountPercentage,
		IsStandard:         p.IsStandard,
		IsActive:           p.IsActive,
	}
}

// ToSubscriptionPlanResponses converts a slice of domain SubscriptionPlans
func ToSubscriptionPlanResponses(plans []*billing.SubscriptionPlan) []SubscriptionPlanResponse {
	responses := make([]SubscriptionPlanResponse, len(plans))
	for i, p := range plans {
		responses[i] = ToSubscriptionPlanResponse(p)
	}
	return responses
}
