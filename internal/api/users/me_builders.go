package users

import (
	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		AuthProvider: u.AuthProvider,
	}
}

// BuildAccessDTO reports the stored role, which wins over the one in the token.
func BuildAccessDTO(u users.User) AccessDTO {
	role := u.Role
	if role == "" {
		role = access.RoleCustomer
	}
	return AccessDTO{Role: role, Capabilities: access.CapabilitiesFor(role)}
}

// BuildPurchaseDTOs flattens payments into one entry per purchased item.
func BuildPurchaseDTOs(payments []billing.Payment) []PurchaseDTO {
	out := []PurchaseDTO{}
	for _, p := range payments {
		for _, item := range p.Items {
			out = append(out, PurchaseDTO{
				PaymentID:     p.ID,
				ProductID:     item.ProductID,
				PriceOptionID: item.PriceOptionID,
				PurchasedAt:   p.CreatedAt,
			})
		}
	}
	return out
}
