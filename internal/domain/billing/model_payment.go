package billing

import (
	"time"

	"content-restriction/internal/domain/users"
)

const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusRefunded = "refunded"
	StatusFailed   = "failed"
)

type Payment struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          *uint       `gorm:"index" json:"user_id,omitempty"`
	User            *users.User `json:"-"`
	Email           string      `gorm:"not null;index" json:"email"`
	StripeSessionID string      `gorm:"uniqueIndex" json:"stripe_session_id"`
	AmountEUR       float64     `json:"amount_eur"`

	// Only complete payments count as purchases.
	Status string `gorm:"not null;default:'pending';index" json:"status"`

	Items []PaymentItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`

	CreatedAt time.Time `json:"created_at"`
}

// PaymentItem is one product (and, for variable pricing, one price option) bought.
type PaymentItem struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	PaymentID     uint  `gorm:"not null;index" json:"payment_id"`
	ProductID     uint  `gorm:"not null;index" json:"product_id"`
	PriceOptionID *uint `gorm:"index" json:"price_option_id,omitempty"`
}
