package users

import "time"

type MeResponse struct {
	User      UserDTO       `json:"user"`
	Access    AccessDTO     `json:"access"`
	Purchases []PurchaseDTO `json:"purchases"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AuthProvider string `json:"auth_provider"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

/* ---------- PURCHASES ---------- */

type PurchaseDTO struct {
	PaymentID     uint      `json:"payment_id"`
	ProductID     uint      `json:"product_id"`
	PriceOptionID *uint     `json:"price_option_id,omitempty"`
	PurchasedAt   time.Time `json:"purchased_at"`
}
