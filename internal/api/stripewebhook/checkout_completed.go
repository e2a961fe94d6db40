package stripewebhooks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"content-restriction/internal/domain/billing"
	stripeinfra "content-restriction/internal/infra/stripe"
	"content-restriction/internal/receipt"

	"github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

const confirmationSubject = "Your purchase"

// confirmationTemplate is rendered through the email tag registry.
const confirmationTemplate = `<p>Thank you for your purchase.</p>{` + receipt.PageListTag + `}`

func (h *Handler) handleCheckoutSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	// Fetch full session with expansions
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.AddExpand("line_items.data.price")
	params.AddExpand("customer")

	full, err := h.getSession(session.ID, params)
	if err != nil {
		return fmt.Errorf("failed to fetch expanded checkout session: %w", err)
	}

	priceIDs := stripeinfra.PriceIDs(full)
	if len(priceIDs) == 0 {
		return errors.New("checkout session has no priced line items")
	}

	items := make([]billing.PaymentItem, 0, len(priceIDs))
	for _, priceID := range priceIDs {
		product, option, err := h.store.ProductByStripePrice(ctx, priceID)
		if err != nil {
			return fmt.Errorf("product not found for stripe price_id=%s: %w", priceID, err)
		}
		item := billing.PaymentItem{ProductID: product.ID}
		if option != nil {
			item.PriceOptionID = &option.ID
		}
		items = append(items, item)
	}

	email := stripeinfra.CustomerEmail(full)
	payment := billing.Payment{
		Email:           email,
		StripeSessionID: full.ID,
		AmountEUR:       float64(full.AmountTotal) / 100.0,
		Status:          stripeinfra.NormalizePaymentStatus(string(full.Status), string(full.PaymentStatus)),
		Items:           items,
	}
	if uid, ok := h.buyer(ctx, full, email); ok {
		payment.UserID = &uid
	}

	created, err := h.store.RecordPayment(ctx, &payment)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	if !created {
		h.log.Info("checkout session already recorded",
			zap.String("session_id", full.ID),
			zap.String("status", payment.Status),
		)
		return nil
	}

	h.log.Info("payment recorded",
		zap.Uint("payment_id", payment.ID),
		zap.String("status", payment.Status),
		zap.Int("items", len(items)),
	)

	if payment.Status == billing.StatusComplete {
		h.sendConfirmation(ctx, payment)
	}
	return nil
}

// buyer identifies the account: metadata.user_id preferred, then ClientReferenceID,
// then the checkout email.
func (h *Handler) buyer(ctx context.Context, s *stripe.CheckoutSession, email string) (uint, bool) {
	ref := ""
	if s.Metadata != nil {
		ref = s.Metadata["user_id"]
	}
	if ref == "" {
		ref = s.ClientReferenceID
	}
	if ref != "" {
		if uid, err := strconv.ParseUint(ref, 10, 64); err == nil && uid > 0 {
			return uint(uid), true
		}
		h.log.Warn("invalid user reference on checkout session", zap.String("ref", ref))
	}
	return h.store.UserIDByEmail(ctx, strings.TrimSpace(email))
}

// sendConfirmation mails the buyer. Failures are logged; the payment stays recorded.
func (h *Handler) sendConfirmation(ctx context.Context, p billing.Payment) {
	if h.mail == nil || p.Email == "" {
		return
	}
	body := h.tags.Render(ctx, confirmationTemplate, p.ID)
	if err := h.mail.SendHTML(p.Email, confirmationSubject, body); err != nil {
		h.log.Error("purchase confirmation not sent", zap.Uint("payment_id", p.ID), zap.Error(err))
	}
}
