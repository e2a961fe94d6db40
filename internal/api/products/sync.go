package products

import (
	"context"
	"fmt"
	"strconv"

	"content-restriction/internal/domain/catalog"

	"github.com/stripe/stripe-go/v75"
)

type SyncResult struct {
	Synced  int `json:"synced"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// stripeProduct is one Stripe product with its sellable prices, in listing order.
type stripeProduct struct {
	product *stripe.Product
	prices  []*stripe.Price
}

// groupPrices keeps active EUR one-time prices of active products and groups them
// by product. Prices flagged metadata.visible=false are skipped.
func groupPrices(prices []*stripe.Price) ([]stripeProduct, int) {
	var (
		out     []stripeProduct
		index   = map[string]int{}
		skipped int
	)
	for _, p := range prices {
		if p == nil || !p.Active || p.Product == nil || !p.Product.Active {
			skipped++
			continue
		}
		if p.Type != stripe.PriceTypeOneTime || string(p.Currency) != "eur" {
			skipped++
			continue
		}
		if p.Metadata != nil && p.Metadata["visible"] == "false" {
			skipped++
			continue
		}

		i, ok := index[p.Product.ID]
		if !ok {
			i = len(out)
			index[p.Product.ID] = i
			out = append(out, stripeProduct{product: p.Product})
		}
		out[i].prices = append(out[i].prices, p)
	}
	return out, skipped
}

// optionName labels a price of a variable-priced product.
func optionName(p *stripe.Price) string {
	if p.Metadata != nil && p.Metadata["option"] != "" {
		return p.Metadata["option"]
	}
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.ID
}

// authorID reads metadata.author_id, the account credited as the product's author.
func authorID(p *stripe.Product) *uint {
	if p.Metadata == nil {
		return nil
	}
	id, err := strconv.ParseUint(p.Metadata["author_id"], 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

func amountEUR(p *stripe.Price) float64 {
	return float64(p.UnitAmount) / 100.0
}

// sync mirrors the Stripe catalog. A product sold at a single price is a plain product;
// several prices make it variable-priced with one price option per price.
func (h *Handler) sync(ctx context.Context, prices []*stripe.Price) (SyncResult, error) {
	groups, skipped := groupPrices(prices)
	res := SyncResult{Skipped: skipped}

	for _, g := range groups {
		product := catalog.Product{
			AuthorID:        authorID(g.product),
			Title:           g.product.Name,
			StripeProductID: g.product.ID,
			VariablePricing: len(g.prices) > 1,
			AmountEUR:       amountEUR(g.prices[0]),
		}
		if !product.VariablePricing {
			product.StripePriceID = stripe.String(g.prices[0].ID)
		}

		created, err := h.store.UpsertProduct(ctx, &product)
		if err != nil {
			return res, fmt.Errorf("upsert product %s: %w", g.product.ID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}

		if product.VariablePricing {
			for _, p := range g.prices {
				opt := catalog.PriceOption{
					ProductID:     product.ID,
					Name:          optionName(p),
					AmountEUR:     amountEUR(p),
					StripePriceID: p.ID,
				}
				if err := h.store.UpsertPriceOption(ctx, &opt); err != nil {
					return res, fmt.Errorf("upsert price option %s: %w", p.ID, err)
				}
			}
		}
		res.Synced++
	}
	return res, nil
}
