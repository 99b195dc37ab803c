package persistence

import (
	"context"
	"errors"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantSubscriptionRepository implements TenantSubscriptionRepository using GORM
type GormTenantSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormTenantSubscriptionRepository creates a new GormTenantSubscriptionRepository
func NewGormTenantSubscriptionRepository(db *gorm.DB) *GormTenantSubscriptionRepository {
	return &GormTenantSubscriptionRepository{db: db}
}

// Create inserts a new subscription row. The partial unique index on
// (tenant_id) WHERE status = 'ACTIVE' turns a lost activation race into
// shared.ErrAlreadyExists.
func (r *GormTenantSubscriptionRepository) Create(ctx context.Context, subscription *billing.TenantSubscription) error {
	model := models.TenantSubscriptionModelFromDomain(subscription)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists subscription changes with optimistic locking (version check).
// Returns shared.ErrConcurrencyConflict if the row was modified by another
// transaction since it was read.
func (r *GormTenantSubscriptionRepository) Save(ctx context.Context, subscription *billing.TenantSubscription) error {
	model := models.TenantSubscriptionModelFromDomain(subscription)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", subscription.ID, subscription.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindActiveByTenantID finds the tenant's ACTIVE subscription row
func (r *GormTenantSubscriptionRepository) FindActiveByTenantID(ctx context.Context, tenantID uuid.UUID) (*billing.TenantSubscription, error) {
	return r.findByTenantIDAndStatus(ctx, tenantID, billing.SubscriptionStatusActive)
}

// FindPendingByTenantID finds the tenant's PENDING_ACTIVATION subscription row
func (r *GormTenantSubscriptionRepository) FindPendingByTenantID(ctx context.Context, tenantID uuid.UUID) (*billing.TenantSubscription, error) {
	return r.findByTenantIDAndStatus(ctx, tenantID, billing.SubscriptionStatusPendingActivation)
}

func (r *GormTenantSubscriptionRepository) findByTenantIDAndStatus(ctx context.Context, tenantID uuid.UUID, status billing.SubscriptionStatus) (*billing.TenantSubscription, error) {
	var model models.TenantSubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("start_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTenantID finds all subscription rows for a tenant, most recent first
func (r *GormTenantSubscriptionRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*billing.TenantSubscription, error) {
	var subscriptionModels []models.TenantSubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_date DESC").
		Find(&subscriptionModels).Error; err != nil {
		return nil, err
	}
	subscriptions := make([]*billing.TenantSubscription, len(subscriptionModels))
	for i, model := range subscriptionModels {
		subscriptions[i] = model.ToDomain()
	}
	return subscriptions, nil
}

// Ensure GormTenantSubscriptionRepository implements TenantSubscriptionRepository
var _ billing.TenantSubscriptionRepository = (*GormTenantSubscriptionRepository)(nil)
