package billing

import (
	"errors"
	"fmt"
	"net/http"

	"content-restriction/config"
	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/catalog"
	"content-restriction/internal/domain/users"
	"content-restriction/internal/infra/store"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

type CheckoutInput struct {
	ProductID     uint  `json:"product_id" binding:"required"`
	PriceOptionID *uint `json:"price_option_id"`
}

var (
	errOptionRequired = errors.New("price_option_id is required for this product")
	errUnknownOption  = errors.New("unknown price option")
	errNotForSale     = errors.New("product has no Stripe price")
)

// checkoutPrice picks the Stripe price a product (or one of its options) is sold at.
func checkoutPrice(p catalog.Product, optionID *uint) (string, error) {
	if !p.VariablePricing {
		if p.StripePriceID == nil || *p.StripePriceID == "" {
			return "", errNotForSale
		}
		return *p.StripePriceID, nil
	}

	if optionID == nil {
		return "", errOptionRequired
	}
	for _, opt := range p.PriceOptions {
		if opt.ID == *optionID {
			if opt.StripePriceID == "" {
				return "", errNotForSale
			}
			return opt.StripePriceID, nil
		}
	}
	return "", errUnknownOption
}

// CreateCheckoutSession starts a one-time Stripe Checkout for a product or price option.
// The purchase is recorded by the webhook once the session completes.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	ctx := c.Request.Context()

	var body CheckoutInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid product_id"})
		return
	}

	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}
	stripe.Key = config.STRIPE_SECRET_KEY

	v := middleware.Viewer(c)
	if !v.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	product, err := h.store.ProductWithOptions(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product"})
			return
		}
		h.log.Error("load product", zap.Uint("product_id", body.ProductID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	priceID, err := checkoutPrice(product, body.PriceOptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByID(ctx, v.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	customerID, err := h.ensureCustomer(c, user)
	if err != nil {
		h.log.Error("stripe customer", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/account/purchases?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(config.APP_URL + "/products/" + product.Slug + "?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:   stripe.String(customerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),
	}
	params.AddMetadata("user_id", fmt.Sprint(user.ID))
	params.AddMetadata("product_id", fmt.Sprint(product.ID))

	s, err := h.newSession(params)
	if err != nil {
		h.log.Error("stripe checkout session", zap.Uint("product_id", product.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

func (h *Handler) ensureCustomer(c *gin.Context, user users.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	cus, err := h.newCustomer(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": fmt.Sprint(user.ID),
			"app_env": config.APP_ENV,
		},
	})
	if err != nil {
		return "", err
	}

	if err := h.store.SetStripeCustomerID(c.Request.Context(), user.ID, cus.ID); err != nil {
		return "", fmt.Errorf("store customer id: %w", err)
	}
	return cus.ID, nil
}
