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

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// Create inserts a new wallet. The unique index on tenant_id turns a lost
// creation race into shared.ErrAlreadyExists.
func (r *GormWalletRepository) Create(ctx context.Context, wallet *billing.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists wallet changes with optimistic locking (version check).
// Returns shared.ErrConcurrencyConflict if the row was modified by another
// transaction since it was read.
func (r *GormWalletRepository) Save(ctx context.Context, wallet *billing.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", wallet.ID, wallet.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByTenantID finds the tenant's wallet
func (r *GormWalletRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*billing.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsForTenant reports whether the tenant already has a wallet
func (r *GormWalletRepository) ExistsForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WalletModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation reports whether err is a unique constraint violation.
// GORM translates driver errors when TranslateError is enabled; the message
// check covers connections opened without translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Ensure GormWalletRepository implements WalletRepository
var _ billing.WalletRepository = (*GormWalletRepository)(nil)
