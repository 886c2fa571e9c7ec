package repository

import (
	"context"
	"errors"
	"time"

	"github.com/genscoutai/genscout-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditBalanceRepository struct {
	db *gorm.DB
}

func NewCreditBalanceRepository(db *gorm.DB) *CreditBalanceRepository {
	return &CreditBalanceRepository{db: db}
}

// Increment bakiyeyi tek bir upsert ile artırır. Satır yoksa delta ile oluşur;
// okuma-yazma döngüsü yok, eşzamanlı webhook'lar birbirini ezmez.
func (r *CreditBalanceRepository) Increment(ctx context.Context, userID string, delta int64) error {
	if delta <= 0 {
		return errors.New("credit delta must be positive")
	}

	balance := models.CreditBalance{
		UserID:  userID,
		Credits: delta,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"credits":    gorm.Expr("credit_balances.credits + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(&balance).Error
}

// GetBalance kaydı olmayan kullanıcı için 0 döner
func (r *CreditBalanceRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance models.CreditBalance
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance.Credits, nil
}
