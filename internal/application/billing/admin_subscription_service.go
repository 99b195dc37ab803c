package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/billing"
)

// AdminSubscriptionService is the back-office surface for managing tenant
// subscriptions. It performs no authorization itself; callers arrive already
// verified, and the acting admin is logged on every mutation for audit.
type AdminSubscriptionService struct {
	subscriptions *SubscriptionService
	planRepo      billing.SubscriptionPlanRepository
	logger        *zap.Logger
}

// NewAdminSubscriptionService creates a new AdminSubscriptionService
func NewAdminSubscriptionService(
	subscriptions *SubscriptionService,
	planRepo billing.SubscriptionPlanRepository,
	logger *zap.Logger,
) *AdminSubscriptionService {
	return &AdminSubscriptionService{
		subscriptions: subscriptions,
		planRepo:      planRepo,
		logger:        logger,
	}
}

// AssignPlan puts a tenant on a plan on behalf of an admin
func (s *AdminSubscriptionService) AssignPlan(
	ctx context.Context,
	actor ActorContext,
	tenantID, planID uuid.UUID,
	pricePaid *decimal.Decimal,
	paymentReference string,
) (*SubscriptionResponse, error) {
	s.logger.Info("admin assigning plan",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan_id", planID.String()),
		zap.String("actor", actor.ActorName))

	return s.subscriptions.Activate(ctx, tenantID, planID, pricePaid, paymentReference, actor)
}

// GetTenantSubscription returns a tenant's current subscription
func (s *AdminSubscriptionService) GetTenantSubscription(ctx context.Context, tenantID uuid.UUID) (*SubscriptionResponse, error) {
	return s.subscriptions.GetCurrent(ctx, tenantID)
}

// DeactivateTenantSubscription expires a tenant's active subscription on
// behalf of an admin
func (s *AdminSubscriptionService) DeactivateTenantSubscription(
	ctx context.Context,
	actor ActorContext,
	tenantID uuid.UUID,
) (*SubscriptionResponse, error) {
	s.logger.Info("admin deactivating subscription",
		zap.String("tenant_id", tenantID.String()),
		zap.String("actor", actor.ActorName))

	return s.subscriptions.Deactivate(ctx, tenantID, actor)
}

// GetTenantSubscriptionHistory returns a tenant's subscription transitions,
// newest first
func (s *AdminSubscriptionService) GetTenantSubscriptionHistory(ctx context.Context, tenantID uuid.UUID) ([]SubscriptionHistoryResponse, error) {
	return s.subscriptions.History(ctx, tenantID)
}

// ListPlans returns the active plan catalog
func (s *AdminSubscriptionService) ListPlans(ctx context.Context) ([]SubscriptionPlanResponse, error) {
	plans, err := s.planRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return ToSubscriptionPlanResponses(plans), nil
}
