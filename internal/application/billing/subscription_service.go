package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/telemetry"
)

// SubscriptionEnsurer repairs a tenant's missing subscription on demand.
// It breaks the wiring cycle between subscription reads and provisioning:
// ProvisioningService registers itself here after construction.
type SubscriptionEnsurer interface {
	EnsureSubscription(ctx context.Context, tenantID uuid.UUID) error
}

// SubscriptionService handles the tenant subscription lifecycle. A tenant
// holds at most one ACTIVE subscription row; plan changes expire the old row
// and insert a new one, each transition recorded in the history trail.
type SubscriptionService struct {
	scope          TransactionScope
	planRepo       billing.SubscriptionPlanRepository
	tenantRepo     identity.TenantRepository
	ensurer        SubscriptionEnsurer
	logger         *zap.Logger
	billingMetrics *telemetry.BillingMetrics
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	scope TransactionScope,
	planRepo billing.SubscriptionPlanRepository,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		scope:      scope,
		planRepo:   planRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// SetEnsurer registers the provisioning fallback used by GetCurrent.
// Called once during wiring, after the provisioning service exists.
func (s *SubscriptionService) SetEnsurer(ensurer SubscriptionEnsurer) {
	s.ensurer = ensurer
}

// SetBillingMetrics sets the billing metrics collector
func (s *SubscriptionService) SetBillingMetrics(bm *telemetry.BillingMetrics) {
	s.billingMetrics = bm
}

// Activate puts the tenant on the given plan. Activating the plan the tenant
// already holds returns the current row unchanged and writes no history.
// Switching plans expires the old row with an UPGRADED history entry, then
// inserts the new ACTIVE row with a CREATED entry, all in one transaction.
// When pricePaid is nil the plan's effective price is charged.
func (s *SubscriptionService) Activate(
	ctx context.Context,
	tenantID, planID uuid.UUID,
	pricePaid *decimal.Decimal,
	paymentReference string,
	actor ActorContext,
) (*SubscriptionResponse, error) {
	exists, err := s.tenantRepo.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	price := plan.EffectivePrice()
	if pricePaid != nil {
		price = *pricePaid
	}

	var result *billing.TenantSubscription
	var created bool
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.SubscriptionRepo().FindActiveByTenantID(ctx, tenantID)
		if err != nil && err != shared.ErrNotFound {
			return err
		}

		if current != nil {
			if current.PlanID == plan.ID {
				result = current
				return nil
			}

			oldPlanID := current.PlanID
			if err := current.Expire(fmt.Sprintf("Upgraded to plan %s", plan.Code)); err != nil {
				return err
			}
			if err := repos.SubscriptionRepo().Save(ctx, current); err != nil {
				return err
			}

			upgraded, err := billing.NewSubscriptionHistory(
				tenantID, current.ID,
				billing.SubscriptionHistoryActionUpgraded,
				fmt.Sprintf("Plan changed to %s", plan.Code),
			)
			if err != nil {
				return err
			}
			upgraded.WithPlanChange(&oldPlanID, &plan.ID)
			if actor.ActorID != nil {
				upgraded.WithPerformedBy(*actor.ActorID)
			}
			if err := repos.HistoryRepo().Create(ctx, upgraded); err != nil {
				return err
			}
		}

		subscription, err := billing.NewActiveSubscription(tenantID, plan, price, paymentReference, actor.ActorID)
		if err != nil {
			return err
		}
		if err := repos.SubscriptionRepo().Create(ctx, subscription); err != nil {
			return err
		}

		entry, err := billing.NewSubscriptionHistory(
			tenantID, subscription.ID,
			billing.SubscriptionHistoryActionCreated,
			fmt.Sprintf("Subscribed to plan %s", plan.Code),
		)
		if err != nil {
			return err
		}
		entry.WithPlanChange(nil, &plan.ID)
		if actor.ActorID != nil {
			entry.WithPerformedBy(*actor.ActorID)
		}
		if err := repos.HistoryRepo().Create(ctx, entry); err != nil {
			return err
		}

		result = subscription
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		if s.billingMetrics != nil {
			s.billingMetrics.RecordSubscriptionActivation(ctx, tenantID, plan.Code)
		}
		s.logger.Info("subscription activated",
			zap.String("tenant_id", tenantID.String()),
			zap.String("plan_code", plan.Code),
			zap.String("actor", actor.ActorName))
	}

	response := ToSubscriptionResponse(result)
	return &response, nil
}

// GetCurrent returns the tenant's current subscription: the ACTIVE row if
// one exists, else a PENDING_ACTIVATION row. A tenant with neither gets one
// provisioning repair attempt through the registered ensurer before the
// lookup fails with NotFound.
func (s *SubscriptionService) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*SubscriptionResponse, error) {
	subscription, err := s.findCurrent(ctx, tenantID)
	if err == shared.ErrNotFound && s.ensurer != nil {
		s.logger.Info("no subscription found, attempting provisioning repair",
			zap.String("tenant_id", tenantID.String()))
		if ensureErr := s.ensurer.EnsureSubscription(ctx, tenantID); ensureErr != nil {
			return nil, ensureErr
		}
		subscription, err = s.findCurrent(ctx, tenantID)
	}
	if err != nil {
		return nil, err
	}

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// HasActive reports whether the tenant currently holds an ACTIVE subscription
func (s *SubscriptionService) HasActive(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var found bool
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		_, err := repos.SubscriptionRepo().FindActiveByTenantID(ctx, tenantID)
		if err == shared.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// Deactivate expires the tenant's ACTIVE subscription and records the
// transition. A tenant without an active subscription gets NotFound.
func (s *SubscriptionService) Deactivate(ctx context.Context, tenantID uuid.UUID, actor ActorContext) (*SubscriptionResponse, error) {
	var result *billing.TenantSubscription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		current, err := repos.SubscriptionRepo().FindActiveByTenantID(ctx, tenantID)
		if err != nil {
			return err
		}

		planID := current.PlanID
		if err := current.Expire("Deactivated"); err != nil {
			return err
		}
		if err := repos.SubscriptionRepo().Save(ctx, current); err != nil {
			return err
		}

		entry, err := billing.NewSubscriptionHistory(
			tenantID, current.ID,
			billing.SubscriptionHistoryActionExpired,
			"Deactivated",
		)
		if err != nil {
			return err
		}
		entry.WithPlanChange(&planID, nil)
		if actor.ActorID != nil {
			entry.WithPerformedBy(*actor.ActorID)
		}
		if err := repos.HistoryRepo().Create(ctx, entry); err != nil {
			return err
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription deactivated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("actor", actor.ActorName))

	response := ToSubscriptionResponse(result)
	return &response, nil
}

// History returns the tenant's subscription transitions, newest first
func (s *SubscriptionService) History(ctx context.Context, tenantID uuid.UUID) ([]SubscriptionHistoryResponse, error) {
	var entries []*billing.SubscriptionHistory
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var listErr error
		entries, listErr = repos.HistoryRepo().FindByTenantID(ctx, tenantID)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	return ToSubscriptionHistoryResponses(entries), nil
}

func (s *SubscriptionService) findCurrent(ctx context.Context, tenantID uuid.UUID) (*billing.TenantSubscription, error) {
	var subscription *billing.TenantSubscription
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		active, err := repos.SubscriptionRepo().FindActiveByTenantID(ctx, tenantID)
		if err == nil {
			subscription = active
			return nil
		}
		if err != shared.ErrNotFound {
			return err
		}

		pending, err := repos.SubscriptionRepo().FindPendingByTenantID(ctx, tenantID)
		if err != nil {
			return err
		}
		subscription = pending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return subscription, nil
}
