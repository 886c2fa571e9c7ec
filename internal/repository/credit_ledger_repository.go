package repository

import (
	"context"

	"github.com/genscoutai/genscout-backend/internal/models"
	"gorm.io/gorm"
)

const ProviderStripe = "stripe"

// CreditLedgerRepository bir kredi ekleme isteğini tek transaction içinde uygular:
// event kaydı (dedupe açıksa), bakiye artışı ve satın alma geçmişi.
type CreditLedgerRepository struct {
	db     *gorm.DB
	dedupe bool
}

func NewCreditLedgerRepository(db *gorm.DB, dedupe bool) *CreditLedgerRepository {
	return &CreditLedgerRepository{
		db:     db,
		dedupe: dedupe,
	}
}

// Fulfill event daha önce işlenmişse (dedupe açıkken) false döner, bakiyeye dokunmaz.
func (r *CreditLedgerRepository) Fulfill(ctx context.Context, grant models.CreditGrant) (bool, error) {
	applied := true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.dedupe {
			created, err := NewWebhookEventRepository(tx).CreateIfNotExists(ctx, &models.WebhookEvent{
				Provider:  ProviderStripe,
				EventID:   grant.EventID,
				EventType: grant.EventType,
			})
			if err != nil {
				return err
			}
			if !created {
				applied = false
				return nil
			}
		}

		if err := NewCreditBalanceRepository(tx).Increment(ctx, grant.UserID, grant.Credits); err != nil {
			return err
		}

		return NewCreditPurchaseRepository(tx).Create(ctx, &models.CreditPurchase{
			UserID:          grant.UserID,
			StripeEventID:   grant.EventID,
			StripeSessionID: grant.SessionID,
			PriceID:         grant.PriceID,
			Credits:         grant.Credits,
		})
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// GetBalance kayıtlı bakiyeyi okur; fiş e-postası için kullanılır
func (r *CreditLedgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	return NewCreditBalanceRepository(r.db).GetBalance(ctx, userID)
}
