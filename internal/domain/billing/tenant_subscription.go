package billing

import (
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus represents the lifecycle state of a tenant subscription.
// A row moves PENDING_ACTIVATION -> ACTIVE -> EXPIRED; a tenant accumulates
// many rows over time but holds at most one ACTIVE row at any moment.
type SubscriptionStatus string

const (
	SubscriptionStatusPendingActivation SubscriptionStatus = "PENDING_ACTIVATION"
	SubscriptionStatusActive            SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired           SubscriptionStatus = "EXPIRED"
)

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid returns true if the subscription status is valid
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusPendingActivation, SubscriptionStatusActive, SubscriptionStatusExpired:
		return true
	}
	return false
}

// TenantSubscription records one contracted period of a plan for a tenant.
// Plan changes never mutate an existing row's plan: the old row is expired
// and a new row inserted, each transition recorded in SubscriptionHistory.
type TenantSubscription struct {
	shared.TenantAggregateRoot
	PlanID             uuid.UUID
	Status             SubscriptionStatus
	StartDate          time.Time
	EndDate            *time.Time
	NextBillingDate    *time.Time
	PricePaid          decimal.Decimal
	PaymentReference   string
	ActivatedBy        *uuid.UUID
	ActivatedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
}

// NewActiveSubscription creates an ACTIVE subscription for a tenant on the
// given plan, with the period end derived from the plan's billing cycle.
// The next billing date equals the period end; nothing acts on it yet.
func NewActiveSubscription(
	tenantID uuid.UUID,
	plan *SubscriptionPlan,
	pricePaid decimal.Decimal,
	paymentReference string,
	activatedBy *uuid.UUID,
) (*TenantSubscription, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if plan == nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan cannot be nil")
	}
	if pricePaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price paid cannot be negative")
	}

	now := time.Now()
	endDate := plan.BillingCycle.PeriodEnd(now)

	sub := &TenantSubscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlanID:              plan.ID,
		Status:              SubscriptionStatusActive,
		StartDate:           now,
		EndDate:             endDate,
		NextBillingDate:     endDate,
		PricePaid:           pricePaid,
		PaymentReference:    paymentReference,
		ActivatedBy:         activatedBy,
		ActivatedAt:         &now,
	}
	return sub, nil
}

// IsActive returns true if this row is the tenant's current subscription
func (s *TenantSubscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// Expire transitions an ACTIVE subscription to EXPIRED
func (s *TenantSubscription) Expire(reason string) error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active subscriptions can be expired")
	}
	now := time.Now()
	s.Status = SubscriptionStatusExpired
	s.CancelledAt = &now
	s.CancellationReason = reason
	s.Touch()
	s.IncrementVersion()
	return nil
}
