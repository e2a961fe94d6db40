package billing

import (
	"errors"
	"net/http"
	"strconv"

	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/infra/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PageDTO struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
}

type ReceiptResponse struct {
	Payment billing.Payment `json:"payment"`
	Pages   []PageDTO       `json:"pages"`
	HTML    string          `json:"html"`
}

func (h *Handler) GetPaymentHistory(c *gin.Context) {
	v := middleware.Viewer(c)
	if !v.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.store.PaymentsForUser(c.Request.Context(), v.ID)
	if err != nil {
		h.log.Error("load payments", zap.Uint("user_id", v.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	if payments == nil {
		payments = []billing.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}

// GetReceipt returns a payment with the pages it unlocked. Only the buyer and
// administrators may read it.
func (h *Handler) GetReceipt(c *gin.Context) {
	v := middleware.Viewer(c)
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
		return
	}

	payment, err := h.store.PaymentByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		h.log.Error("load payment", zap.Uint64("payment_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment"})
		return
	}

	owner := payment.UserID != nil && *payment.UserID == v.ID
	if !owner && !h.store.HasCapability(ctx, v, access.CapManageOptions) {
		// same answer as a missing payment
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	resp := ReceiptResponse{Payment: payment, Pages: []PageDTO{}}

	// Only completed purchases unlock anything.
	if payment.Status == billing.StatusComplete {
		pages, err := h.receipts.RestrictedPages(ctx, payment.ID)
		if err != nil {
			h.log.Error("receipt pages", zap.Uint("payment_id", payment.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load receipt"})
			return
		}
		for _, p := range pages {
			resp.Pages = append(resp.Pages, PageDTO{ID: p.ID, Title: p.Title, Permalink: h.store.PostPermalink(p)})
		}

		resp.HTML, err = h.receipts.ReceiptSection(ctx, payment.ID)
		if err != nil {
			h.log.Error("receipt section", zap.Uint("payment_id", payment.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load receipt"})
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
