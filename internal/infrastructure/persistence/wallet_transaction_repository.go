package persistence

import (
	"context"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWalletTransactionRepository implements WalletTransactionRepository using GORM
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// Create appends a new transaction to the ledger
func (r *GormWalletTransactionRepository) Create(ctx context.Context, transaction *billing.WalletTransaction) error {
	model := models.WalletTransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByTenantID finds one page of a tenant's transactions, most recent first
func (r *GormWalletTransactionRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*billing.WalletTransaction, error) {
	var transactionModels []models.WalletTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("transaction_date DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]*billing.WalletTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = model.ToDomain()
	}
	return transactions, nil
}

// CountByTenantID counts the tenant's transactions
func (r *GormWalletTransactionRepository) CountByTenantID(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormWalletTransactionRepository implements WalletTransactionRepository
var _ billing.WalletTransactionRepository = (*GormWalletTransactionRepository)(nil)
