package catalog

import "time"

// Product is a purchasable download. Products with VariablePricing are sold through
// their PriceOptions; the others through StripePriceID.
type Product struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID *uint  `gorm:"index" json:"author_id,omitempty"`
	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"not null;uniqueIndex" json:"slug"`

	VariablePricing bool    `gorm:"not null;default:false" json:"variable_pricing"`
	AmountEUR       float64 `json:"amount_eur"`

	StripeProductID string  `gorm:"column:stripe_product_id;uniqueIndex" json:"-"`
	StripePriceID   *string `gorm:"column:stripe_price_id;uniqueIndex" json:"-"`

	PriceOptions []PriceOption `gorm:"constraint:OnDelete:CASCADE;" json:"price_options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PriceOption struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ProductID     uint    `gorm:"not null;index" json:"product_id"`
	Name          string  `gorm:"not null" json:"name"`
	AmountEUR     float64 `json:"amount_eur"`
	StripePriceID string  `gorm:"column:stripe_price_id;not null;uniqueIndex" json:"-"`
}
