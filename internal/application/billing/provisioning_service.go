package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
)

// ProvisioningGuard serializes provisioning runs per tenant. Acquire returns
// false when another run holds the lock. The guard is advisory; the database
// uniqueness constraints remain the correctness backstop.
type ProvisioningGuard interface {
	Acquire(ctx context.Context, tenantID uuid.UUID) (bool, error)
	Release(ctx context.Context, tenantID uuid.UUID) error
}

// ProvisioningService sets up billing state for tenants: a wallet with its
// opening credit and a subscription on the standard seed plan. Every
// operation is idempotent; re-provisioning an already-provisioned tenant
// changes nothing.
type ProvisioningService struct {
	wallets        *WalletService
	subscriptions  *SubscriptionService
	planRepo       billing.SubscriptionPlanRepository
	tenantRepo     identity.TenantRepository
	guard          ProvisioningGuard
	logger         *zap.Logger
	billingMetrics *telemetry.BillingMetrics
}

// NewProvisioningService creates a new ProvisioningService
func NewProvisioningService(
	wallets *WalletService,
	subscriptions *SubscriptionService,
	planRepo billing.SubscriptionPlanRepository,
	tenantRepo identity.TenantRepository,
	guard ProvisioningGuard,
	logger *zap.Logger,
) *ProvisioningService {
	return &ProvisioningService{
		wallets:       wallets,
		subscriptions: subscriptions,
		planRepo:      planRepo,
		tenantRepo:    tenantRepo,
		guard:         guard,
		logger:        logger,
	}
}

// SetBillingMetrics sets the billing metrics collector
func (p *ProvisioningService) SetBillingMetrics(bm *telemetry.BillingMetrics) {
	p.billingMetrics = bm
}

func (p *ProvisioningService) recordOutcome(ctx context.Context, tenantID uuid.UUID, outcome telemetry.ProvisioningOutcome) {
	if p.billingMetrics != nil {
		p.billingMetrics.RecordProvisioning(ctx, tenantID, outcome)
	}
}

// ProvisionTenant ensures the tenant has a wallet and an active subscription.
// Concurrent runs for the same tenant serialize behind the guard lock; a run
// that cannot take the lock reports a concurrency conflict rather than wait.
func (p *ProvisioningService) ProvisionTenant(ctx context.Context, tenantID uuid.UUID) error {
	exists, err := p.tenantRepo.Exists(ctx, tenantID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}

	acquired, err := p.guard.Acquire(ctx, tenantID)
	if err != nil {
		return err
	}
	if !acquired {
		p.recordOutcome(ctx, tenantID, telemetry.ProvisioningOutcomeSkipped)
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Provisioning already in progress for tenant")
	}
	defer func() {
		if releaseErr := p.guard.Release(ctx, tenantID); releaseErr != nil {
			p.logger.Warn("failed to release provisioning guard",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(releaseErr))
		}
	}()

	if _, err := p.wallets.GetOrCreateWallet(ctx, tenantID); err != nil {
		p.recordOutcome(ctx, tenantID, telemetry.ProvisioningOutcomeFailed)
		return err
	}
	if err := p.EnsureSubscription(ctx, tenantID); err != nil {
		p.recordOutcome(ctx, tenantID, telemetry.ProvisioningOutcomeFailed)
		return err
	}

	p.recordOutcome(ctx, tenantID, telemetry.ProvisioningOutcomeSuccess)
	p.logger.Info("tenant provisioned", zap.String("tenant_id", tenantID.String()))
	return nil
}

// EnsureSubscription puts the tenant on the standard seed plan unless an
// ACTIVE subscription already exists. A missing seed plan is a deployment
// defect: the caller sees NotFound, the log records the misconfiguration.
func (p *ProvisioningService) EnsureSubscription(ctx context.Context, tenantID uuid.UUID) error {
	hasActive, err := p.subscriptions.HasActive(ctx, tenantID)
	if err != nil {
		return err
	}
	if hasActive {
		return nil
	}

	plan, err := p.planRepo.FindByCode(ctx, billing.StandardPlanCode)
	if err != nil {
		if err == shared.ErrNotFound {
			p.logger.Error("standard subscription plan missing from catalog",
				zap.String("plan_code", billing.StandardPlanCode),
				zap.String("tenant_id", tenantID.String()))
		}
		return err
	}

	_, err = p.subscriptions.Activate(ctx, tenantID, plan.ID, nil, "", SystemActor)
	return err
}

// ProvisionAllTenants runs provisioning across every tenant in the
// directory. The run is best-effort: per-tenant failures are collected in
// the report instead of aborting the batch.
func (p *ProvisioningService) ProvisionAllTenants(ctx context.Context) (*ProvisioningReport, error) {
	tenantIDs, err := p.tenantRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProvisioningReport{Total: len(tenantIDs)}
	for _, tenantID := range tenantIDs {
		if err := p.ProvisionTenant(ctx, tenantID); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, ProvisioningFailure{
				TenantID: tenantID,
				Error:    err.Error(),
			})
			p.logger.Warn("tenant provisioning failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			continue
		}
		report.Provisioned++
	}

	p.logger.Info("batch provisioning completed",
		zap.Int("total", report.Total),
		zap.Int("provisioned", report.Provisioned),
		zap.Int("failed", report.Failed))

	return report, nil
}

// Ensure ProvisioningService satisfies the repair hook used by GetCurrent
var _ SubscriptionEnsurer = (*ProvisioningService)(nil)
