// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/metric"
)

// BillingMetrics provides business metrics for the billing core.
// It tracks wallet movements, subscription activations, and provisioning
// outcomes.
type BillingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	walletTransactionTotal  *Counter
	walletAmountTotal       *Counter
	subscriptionActivations *Counter
	provisioningTotal       *Counter
}

// BillingMetricsConfig holds configuration for billing metrics.
type BillingMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBillingMetrics creates a new BillingMetrics instance.
func NewBillingMetrics(cfg BillingMetricsConfig) (*BillingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BillingMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	bm.walletTransactionTotal, err = NewCounter(
		cfg.Meter,
		"billing_wallet_transaction_total",
		"Total number of wallet ledger movements",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	bm.walletAmountTotal, err = NewCounter(
		cfg.Meter,
		"billing_wallet_amount_total",
		"Total wallet movement amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.subscriptionActivations, err = NewCounter(
		cfg.Meter,
		"billing_subscription_activation_total",
		"Total number of subscription activations",
		"{activations}",
	)
	if err != nil {
		return nil, err
	}

	bm.provisioningTotal, err = NewCounter(
		cfg.Meter,
		"billing_provisioning_total",
		"Total number of tenant provisioning attempts",
		"{attempts}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordWalletTransaction records a wallet ledger movement.
// Amount is converted to the smallest currency unit (cents).
func (bm *BillingMetrics) RecordWalletTransaction(ctx context.Context, tenantID uuid.UUID, transactionType string, amount decimal.Decimal) {
	bm.walletTransactionTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrTransactionType.String(transactionType),
	)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.walletAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrTransactionType.String(transactionType),
	)
}

// RecordSubscriptionActivation records a subscription activation event.
func (bm *BillingMetrics) RecordSubscriptionActivation(ctx context.Context, tenantID uuid.UUID, planCode string) {
	bm.subscriptionActivations.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPlanCode.String(planCode),
	)
}

// ProvisioningOutcome represents the outcome of a provisioning attempt for
// metrics labeling.
type ProvisioningOutcome string

const (
	ProvisioningOutcomeSuccess ProvisioningOutcome = "success"
	ProvisioningOutcomeFailed  ProvisioningOutcome = "failed"
	ProvisioningOutcomeSkipped ProvisioningOutcome = "skipped"
)

// RecordProvisioning records the outcome of a tenant provisioning attempt.
func (bm *BillingMetrics) RecordProvisioning(ctx context.Context, tenantID uuid.UUID, outcome ProvisioningOutcome) {
	bm.provisioningTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrProvisioningOutcome.String(string(outcome)),
	)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBillingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
