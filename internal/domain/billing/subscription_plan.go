package billing

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StandardPlanCode is the code of the seed plan assigned to newly
// provisioned tenants. Its absence from the plan catalog is a deployment
// defect, not a normal caller error.
const StandardPlanCode = "STANDARD"

// BillingCycle represents the cadence of a subscription plan
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "MONTHLY"
	BillingCycleQuarterly BillingCycle = "QUARTERLY"
	BillingCycleYearly    BillingCycle = "YEARLY"
	BillingCycleOneTime   BillingCycle = "ONE_TIME"
)

// String returns the string representation of BillingCycle
func (c BillingCycle) String() string {
	return string(c)
}

// IsValid returns true if the billing cycle is valid
func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly, BillingCycleOneTime:
		return true
	}
	return false
}

// PeriodEnd returns the end of a subscription period starting at the given
// time. One-time plans have no period end and return nil.
func (c BillingCycle) PeriodEnd(start time.Time) *time.Time {
	var end time.Time
	switch c {
	case BillingCycleMonthly:
		end = start.AddDate(0, 0, 30)
	case BillingCycleQuarterly:
		end = start.AddDate(0, 0, 90)
	case BillingCycleYearly:
		end = start.AddDate(0, 0, 365)
	default:
		return nil
	}
	return &end
}

// SubscriptionPlan is reference data describing a commercial plan tenants
// can subscribe to. Plans are rarely mutated.
type SubscriptionPlan struct {
	shared.BaseEntity
	Code               string
	Name               string
	Price              decimal.Decimal
	Currency           string
	BillingCycle       BillingCycle
	DiscountPercentage decimal.Decimal
	IsStandard         bool
	IsActive           bool
	ValidFrom          *time.Time
	ValidUntil         *time.Time
}

// NewSubscriptionPlan creates a new subscription plan
func NewSubscriptionPlan(
	code, name string,
	price decimal.Decimal,
	currency string,
	cycle BillingCycle,
) (*SubscriptionPlan, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_CODE", "Plan code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	if !cycle.IsValid() {
		return nil, shared.NewDomainError("INVALID_BILLING_CYCLE", "Invalid billing cycle")
	}

	return &SubscriptionPlan{
		BaseEntity:         shared.NewBaseEntity(),
		Code:               code,
		Name:               name,
		Price:              price,
		Currency:           currency,
		BillingCycle:       cycle,
		DiscountPercentage: decimal.Zero,
		IsActive:           true,
	}, nil
}

// EffectivePrice returns the plan price after applying the discount percentage
func (p *SubscriptionPlan) EffectivePrice() decimal.Decimal {
	if p.DiscountPercentage.IsZero() {
		return p.Price
	}
	discount := p.Price.Mul(p.DiscountPercentage).Div(decimal.NewFromInt(100))
	return p.Price.Sub(discount)
}

// IsAvailableAt returns true if the plan is active and inside its validity
// window at the given time
func (p *SubscriptionPlan) IsAvailableAt(at time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.ValidFrom != nil && at.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && at.After(*p.ValidUntil) {
		return false
	}
	return true
}
