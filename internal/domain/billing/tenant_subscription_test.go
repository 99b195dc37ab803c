package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backend/internal/domain/shared"
)

func newTestPlan(t *testing.T, code string, price int64, cycle BillingCycle) *SubscriptionPlan {
	t.Helper()
	plan, err := NewSubscriptionPlan(code, code+" plan", decimal.NewFromInt(price), "USD", cycle)
	require.NoError(t, err)
	return plan
}

func TestSubscriptionStatus(t *testing.T) {
	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, SubscriptionStatusPendingActivation.IsValid())
		assert.True(t, SubscriptionStatusActive.IsValid())
		assert.True(t, SubscriptionStatusExpired.IsValid())
		assert.False(t, SubscriptionStatus("CANCELLED").IsValid())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "ACTIVE", SubscriptionStatusActive.String())
		assert.Equal(t, "PENDING_ACTIVATION", SubscriptionStatusPendingActivation.String())
	})
}

func TestNewActiveSubscription(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active subscription for a monthly plan", func(t *testing.T) {
		plan := newTestPlan(t, "PRO", 50, BillingCycleMonthly)
		actor := uuid.New()

		sub, err := NewActiveSubscription(tenantID, plan, decimal.NewFromInt(50), "pay_1", &actor)
		require.NoError(t, err)

		assert.Equal(t, tenantID, sub.TenantID)
		assert.Equal(t, plan.ID, sub.PlanID)
		assert.Equal(t, SubscriptionStatusActive, sub.Status)
		assert.True(t, sub.PricePaid.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "pay_1", sub.PaymentReference)

		require.NotNil(t, sub.EndDate)
		assert.WithinDuration(t, sub.StartDate.AddDate(0, 0, 30), *sub.EndDate, time.Second)

		require.NotNil(t, sub.NextBillingDate)
		assert.Equal(t, *sub.EndDate, *sub.NextBillingDate)

		require.NotNil(t, sub.ActivatedBy)
		assert.Equal(t, actor, *sub.ActivatedBy)
		assert.NotNil(t, sub.ActivatedAt)
	})

	t.Run("one-time plan has no end date", func(t *testing.T) {
		plan := newTestPlan(t, "LIFETIME", 500, BillingCycleOneTime)

		sub, err := NewActiveSubscription(tenantID, plan, decimal.NewFromInt(500), "", nil)
		require.NoError(t, err)

		assert.Nil(t, sub.EndDate)
		assert.Nil(t, sub.NextBillingDate)
		assert.Nil(t, sub.ActivatedBy)
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		plan := newTestPlan(t, "PRO", 50, BillingCycleMonthly)
		_, err := NewActiveSubscription(uuid.Nil, plan, decimal.Zero, "", nil)
		require.Error(t, err)
	})

	t.Run("rejects negative price paid", func(t *testing.T) {
		plan := newTestPlan(t, "PRO", 50, BillingCycleMonthly)
		_, err := NewActiveSubscription(tenantID, plan, decimal.NewFromInt(-1), "", nil)
		require.Error(t, err)
	})
}

func TestTenantSubscriptionExpire(t *testing.T) {
	t.Run("expires an active subscription", func(t *testing.T) {
		plan := newTestPlan(t, "PRO", 50, BillingCycleMonthly)
		sub, err := NewActiveSubscription(uuid.New(), plan, decimal.NewFromInt(50), "", nil)
		require.NoError(t, err)

		err = sub.Expire("Upgraded to a new plan")
		require.NoError(t, err)

		assert.Equal(t, SubscriptionStatusExpired, sub.Status)
		assert.NotNil(t, sub.CancelledAt)
		assert.Equal(t, "Upgraded to a new plan", sub.CancellationReason)
		assert.False(t, sub.IsActive())
	})

	t.Run("cannot expire twice", func(t *testing.T) {
		plan := newTestPlan(t, "PRO", 50, BillingCycleMonthly)
		sub, err := NewActiveSubscription(uuid.New(), plan, decimal.NewFromInt(50), "", nil)
		require.NoError(t, err)
		require.NoError(t, sub.Expire("first"))

		err = sub.Expire("second")
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorCode(err, "INVALID_STATE"))
	})
}
