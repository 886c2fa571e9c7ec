package repository

import (
	"context"

	"github.com/genscoutai/genscout-backend/internal/models"
	"gorm.io/gorm"
)

type CreditPurchaseRepository struct {
	db *gorm.DB
}

func NewCreditPurchaseRepository(db *gorm.DB) *CreditPurchaseRepository {
	return &CreditPurchaseRepository{
		db: db,
	}
}

func (r *CreditPurchaseRepository) Create(ctx context.Context, purchase *models.CreditPurchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *CreditPurchaseRepository) GetUserPurchaseHistory(ctx context.Context, userID string) ([]models.CreditPurchase, error) {
	var purchases []models.CreditPurchase
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&purchases).Error
	return purchases, err
}
