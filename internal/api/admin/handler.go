package admin

import (
	"context"
	"net/http"

	"content-restriction/internal/domain/billing"
	"content-restriction/internal/infra/mailer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminPayment struct {
	ID              uint    `json:"id"`
	UserID          *uint   `json:"user_id,omitempty"`
	Email           string  `json:"email"`
	AmountEUR       float64 `json:"amount_eur"`
	Status          string  `json:"status"`
	Items           int     `json:"items"`
	StripeSessionID string  `json:"stripe_session_id"`
	CreatedAt       string  `json:"created_at"`
}

type EmailTag struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

type Store interface {
	AllPayments(ctx context.Context) ([]billing.Payment, error)
}

type Handler struct {
	store Store
	tags  *mailer.Tags
	log   *zap.Logger
}

func NewHandler(s Store, tags *mailer.Tags, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if tags == nil {
		tags = mailer.NewTags()
	}
	return &Handler{store: s, tags: tags, log: log}
}

func (h *Handler) ListAllPayments(c *gin.Context) {
	payments, err := h.store.AllPayments(c.Request.Context())
	if err != nil {
		h.log.Error("load payments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	result := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		result = append(result, AdminPayment{
			ID:              p.ID,
			UserID:          p.UserID,
			Email:           p.Email,
			AmountEUR:       p.AmountEUR,
			Status:          p.Status,
			Items:           len(p.Items),
			StripeSessionID: p.StripeSessionID,
			CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, result)
}

// ListEmailTags documents the placeholders available to purchase emails.
func (h *Handler) ListEmailTags(c *gin.Context) {
	tags := h.tags.List()
	out := make([]EmailTag, 0, len(tags))
	for _, t := range tags {
		out = append(out, EmailTag{Tag: "{" + t.Name + "}", Description: t.Description})
	}
	c.JSON(http.StatusOK, out)
}
