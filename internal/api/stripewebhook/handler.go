package stripewebhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"content-restriction/config"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/catalog"
	"content-restriction/internal/infra/mailer"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/webhook"
	"go.uber.org/zap"
)

type Store interface {
	ProductByStripePrice(ctx context.Context, stripePriceID string) (catalog.Product, *catalog.PriceOption, error)
	RecordPayment(ctx context.Context, p *billing.Payment) (bool, error)
	UserIDByEmail(ctx context.Context, email string) (uint, bool)
}

type Mailer interface {
	SendHTML(to, subject, htmlBody string) error
}

type Handler struct {
	store Store
	tags  *mailer.Tags
	mail  Mailer
	log   *zap.Logger

	getSession func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewHandler wires the webhook. A nil mail disables the purchase confirmation email.
func NewHandler(s Store, tags *mailer.Tags, mail Mailer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if tags == nil {
		tags = mailer.NewTags()
	}
	return &Handler{
		store:      s,
		tags:       tags,
		mail:       mail,
		log:        log,
		getSession: checkoutsession.Get,
	}
}

func (h *Handler) StripeWebhook(c *gin.Context) {
	// Stripe key is required for the follow-up checkoutsession.Get
	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}
	stripe.Key = config.STRIPE_SECRET_KEY

	if config.STRIPE_WEBHOOK_SECRET == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		config.STRIPE_WEBHOOK_SECRET,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.log.Warn("stripe signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := h.handleCheckoutSessionCompleted(c.Request.Context(), &session); err != nil {
			h.log.Error("checkout session not recorded",
				zap.String("event_id", event.ID),
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			// 500 so Stripe retries
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
