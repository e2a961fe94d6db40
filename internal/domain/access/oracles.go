package access

import "context"

// IdentityOracle answers who the viewer is and what they bought.
// Implementations degrade to "no" on lookup failures.
type IdentityOracle interface {
	HasCapability(ctx context.Context, v Viewer, capability string) bool
	CanEdit(ctx context.Context, v Viewer, postID uint) bool
	HasAnyPurchase(ctx context.Context, userID uint) bool
	// HasPurchased with a nil priceOptionID matches any price option of the product.
	HasPurchased(ctx context.Context, userID, productID uint, priceOptionID *uint) bool
	ProductAuthor(ctx context.Context, productID uint) (uint, bool)
}

// CatalogOracle exposes product metadata used to render denial messages.
type CatalogOracle interface {
	Exists(ctx context.Context, productID uint) bool
	Title(ctx context.Context, productID uint) string
	Permalink(ctx context.Context, productID uint) string
	HasVariablePricing(ctx context.Context, productID uint) bool
	PriceOptionName(ctx context.Context, productID, priceOptionID uint) string
}
