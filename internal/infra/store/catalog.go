package store

import (
	"context"
	"errors"

	"content-restriction/internal/domain/catalog"
	"content-restriction/internal/domain/content"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Store) product(ctx context.Context, productID uint) (catalog.Product, bool) {
	var p catalog.Product
	if productID == 0 {
		return p, false
	}
	err := s.db.WithContext(ctx).First(&p, productID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("product lookup failed", zap.Uint("product_id", productID), zap.Error(err))
		}
		return p, false
	}
	return p, true
}

func (s *Store) Exists(ctx context.Context, productID uint) bool {
	_, ok := s.product(ctx, productID)
	return ok
}

func (s *Store) Title(ctx context.Context, productID uint) string {
	p, _ := s.product(ctx, productID)
	return p.Title
}

func (s *Store) Permalink(ctx context.Context, productID uint) string {
	p, ok := s.product(ctx, productID)
	if !ok {
		return ""
	}
	return content.ProductPermalink(s.baseURL, p.Slug)
}

func (s *Store) HasVariablePricing(ctx context.Context, productID uint) bool {
	p, _ := s.product(ctx, productID)
	return p.VariablePricing
}

func (s *Store) PriceOptionName(ctx context.Context, productID, priceOptionID uint) string {
	var opt catalog.PriceOption
	err := s.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", priceOptionID, productID).
		First(&opt).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("price option lookup failed",
				zap.Uint("product_id", productID),
				zap.Uint("price_option_id", priceOptionID),
				zap.Error(err),
			)
		}
		return ""
	}
	return opt.Name
}

// Products lists the catalog with its price options.
func (s *Store) Products(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	err := s.db.WithContext(ctx).
		Preload("PriceOptions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("title ASC").
		Find(&out).Error
	return out, err
}

// ProductWithOptions loads a product and its price options.
func (s *Store) ProductWithOptions(ctx context.Context, productID uint) (catalog.Product, error) {
	var p catalog.Product
	err := s.db.WithContext(ctx).
		Preload("PriceOptions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&p, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

// ProductByStripePrice resolves a Stripe price to a product and, for variable pricing,
// the matching price option.
func (s *Store) ProductByStripePrice(ctx context.Context, stripePriceID string) (catalog.Product, *catalog.PriceOption, error) {
	db := s.db.WithContext(ctx)

	var opt catalog.PriceOption
	err := db.Where("stripe_price_id = ?", stripePriceID).First(&opt).Error
	if err == nil {
		var p catalog.Product
		if err := db.First(&p, opt.ProductID).Error; err != nil {
			return catalog.Product{}, nil, err
		}
		return p, &opt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.Product{}, nil, err
	}

	var p catalog.Product
	if err := db.Where("stripe_price_id = ?", stripePriceID).First(&p).Error; err != nil {
		return catalog.Product{}, nil, err
	}
	return p, nil, nil
}

// UpsertProduct creates or updates a product keyed by its Stripe product id.
// Returns true when a row was created.
func (s *Store) UpsertProduct(ctx context.Context, p *catalog.Product) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing catalog.Product
	err := db.Where("stripe_product_id = ?", p.StripeProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slug, err := content.UniqueSlug(db, &catalog.Product{}, content.MakeSlug(p.Title))
		if err != nil {
			return false, err
		}
		p.Slug = slug
		return true, db.Create(p).Error
	}
	if err != nil {
		return false, err
	}

	existing.Title = p.Title
	existing.VariablePricing = p.VariablePricing
	existing.AmountEUR = p.AmountEUR
	existing.StripePriceID = p.StripePriceID
	if err := db.Save(&existing).Error; err != nil {
		return false, err
	}
	*p = existing
	return false, nil
}

// UpsertPriceOption creates or updates a price option keyed by its Stripe price id.
func (s *Store) UpsertPriceOption(ctx context.Context, opt *catalog.PriceOption) error {
	db := s.db.WithContext(ctx)

	var existing catalog.PriceOption
	err := db.Where("stripe_price_id = ?", opt.StripePriceID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(opt).Error
	}
	if err != nil {
		return err
	}

	existing.ProductID = opt.ProductID
	existing.Name = opt.Name
	existing.AmountEUR = opt.AmountEUR
	if err := db.Save(&existing).Error; err != nil {
		return err
	}
	*opt = existing
	return nil
}
