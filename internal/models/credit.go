package models

import "time"

// CreditBalance kullanıcının harcanabilir kredi bakiyesi. Satır ilk satın
// alımda oluşur, sonrasında sadece artırılarak güncellenir.
type CreditBalance struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(128)"`
	Credits   int64     `json:"credits" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditPurchase tamamlanan her satın alımın geçmiş kaydı
type CreditPurchase struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          string    `json:"user_id" gorm:"not null;index;type:varchar(128)"`
	StripeEventID   string    `json:"stripe_event_id" gorm:"not null;index"`
	StripeSessionID string    `json:"stripe_session_id" gorm:"not null"`
	PriceID         string    `json:"price_id" gorm:"not null"`
	Credits         int64     `json:"credits" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}

// WebhookEvent işlenmiş Stripe event id'leri (dedupe açıkken)
type WebhookEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Provider    string    `json:"provider" gorm:"not null;uniqueIndex:idx_webhook_provider_event"`
	EventID     string    `json:"event_id" gorm:"not null;uniqueIndex:idx_webhook_provider_event"`
	EventType   string    `json:"event_type" gorm:"not null"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CreditGrant tek bir webhook event'inden doğan kredi ekleme isteği
type CreditGrant struct {
	EventID   string
	EventType string
	SessionID string
	UserID    string
	PriceID   string
	Credits   int64
}

type CreditPackage struct {
	PriceID string `json:"price_id"`
	Credits int64  `json:"credits"`
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Credits int64  `json:"credits"`
}
