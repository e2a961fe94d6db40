// Package billing exposes purchases: Stripe checkout, payment history and receipts.
package billing

import (
	"context"

	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/catalog"
	"content-restriction/internal/domain/content"
	"content-restriction/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
	"go.uber.org/zap"
)

type Store interface {
	PaymentsForUser(ctx context.Context, userID uint) ([]billing.Payment, error)
	PaymentByID(ctx context.Context, id uint) (billing.Payment, error)
	HasCapability(ctx context.Context, v access.Viewer, capability string) bool

	ProductWithOptions(ctx context.Context, productID uint) (catalog.Product, error)
	UserByID(ctx context.Context, id uint) (users.User, error)
	SetStripeCustomerID(ctx context.Context, userID uint, customerID string) error

	PostPermalink(post content.Post) string
}

type Receipts interface {
	RestrictedPages(ctx context.Context, paymentID uint) ([]content.Post, error)
	ReceiptSection(ctx context.Context, paymentID uint) (string, error)
}

type Handler struct {
	store    Store
	receipts Receipts
	log      *zap.Logger

	newCustomer func(*stripe.CustomerParams) (*stripe.Customer, error)
	newSession  func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewHandler(s Store, receipts Receipts, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:       s,
		receipts:    receipts,
		log:         log,
		newCustomer: customer.New,
		newSession:  checkoutsession.New,
	}
}
