package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionPlanRepository implements SubscriptionPlanRepository using GORM
type GormSubscriptionPlanRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionPlanRepository creates a new GormSubscriptionPlanRepository
func NewGormSubscriptionPlanRepository(db *gorm.DB) *GormSubscriptionPlanRepository {
	return &GormSubscriptionPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormSubscriptionPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SubscriptionPlan, error) {
	var model models.SubscriptionPlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a plan by its unique code
func (r *GormSubscriptionPlanRepository) FindByCode(ctx context.Context, code string) (*billing.SubscriptionPlan, error) {
	var model models.SubscriptionPlanModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all plans currently offered, standard plans first
func (r *GormSubscriptionPlanRepository) FindActive(ctx context.Context) ([]*billing.SubscriptionPlan, error) {
	var planModels []models.SubscriptionPlanModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("is_standard DESC, code ASC").
		Find(&planModels).Error; err != nil {
		return nil, err
	}
	plans := make([]*billing.SubscriptionPlan, len(planModels))
	for i, model := range planModels {
		plans[i] = model.ToDomain()
	}
	return plans, nil
}

// Save creates or updates a plan
func (r *GormSubscriptionPlanRepository) Save(ctx context.Context, plan *billing.SubscriptionPlan) error {
	model := models.SubscriptionPlanModelFromDomain(plan)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure GormSubscriptionPlanRepository implements SubscriptionPlanRepository
var _ billing.SubscriptionPlanRepository = (*GormSubscriptionPlanRepository)(nil)
