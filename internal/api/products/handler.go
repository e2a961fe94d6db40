// Package products lists the products and mirrors them from Stripe.
package products

import (
	"context"
	"net/http"

	"content-restriction/config"
	"content-restriction/internal/domain/catalog"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"go.uber.org/zap"
)

type Store interface {
	Products(ctx context.Context) ([]catalog.Product, error)
	UpsertProduct(ctx context.Context, p *catalog.Product) (bool, error)
	UpsertPriceOption(ctx context.Context, opt *catalog.PriceOption) error
}

type Handler struct {
	store Store
	log   *zap.Logger

	listPrices func(*stripe.PriceListParams) ([]*stripe.Price, error)
}

func NewHandler(s Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: s, log: log, listPrices: listStripePrices}
}

func listStripePrices(params *stripe.PriceListParams) ([]*stripe.Price, error) {
	var out []*stripe.Price
	it := price.List(params)
	for it.Next() {
		out = append(out, it.Price())
	}
	return out, it.Err()
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.store.Products(c.Request.Context())
	if err != nil {
		h.log.Error("load products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) SyncCatalogFromStripe(c *gin.Context) {
	if config.STRIPE_SECRET_KEY == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}
	stripe.Key = config.STRIPE_SECRET_KEY

	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String(string(stripe.PriceTypeOneTime))
	params.AddExpand("data.product")

	prices, err := h.listPrices(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe prices", "details": err.Error()})
		return
	}

	res, err := h.sync(c.Request.Context(), prices)
	if err != nil {
		h.log.Error("catalog sync", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync catalog", "details": err.Error()})
		return
	}

	h.log.Info("catalog synced",
		zap.Int("synced", res.Synced),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
	)
	c.JSON(http.StatusOK, res)
}
