package persistence

import (
	"context"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionHistoryRepository implements SubscriptionHistoryRepository using GORM
type GormSubscriptionHistoryRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionHistoryRepository creates a new GormSubscriptionHistoryRepository
func NewGormSubscriptionHistoryRepository(db *gorm.DB) *GormSubscriptionHistoryRepository {
	return &GormSubscriptionHistoryRepository{db: db}
}

// Create appends a new entry to the audit trail
func (r *GormSubscriptionHistoryRepository) Create(ctx context.Context, entry *billing.SubscriptionHistory) error {
	model := models.SubscriptionHistoryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByTenantID finds all history entries for a tenant, most recent first
func (r *GormSubscriptionHistoryRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*billing.SubscriptionHistory, error) {
	var historyModels []models.SubscriptionHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("performed_at DESC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*billing.SubscriptionHistory, len(historyModels))
	for i, model := range historyModels {
		entries[i] = model.ToDomain()
	}
	return entries, nil
}

// Ensure GormSubscriptionHistoryRepository implements SubscriptionHistoryRepository
var _ billing.SubscriptionHistoryRepository = (*GormSubscriptionHistoryRepository)(nil)
