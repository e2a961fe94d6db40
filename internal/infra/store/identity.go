package store

import (
	"context"
	"errors"

	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/content"
	"content-restriction/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// refresh re-reads the viewer's role so revoked roles take effect before the token expires.
func (s *Store) refresh(ctx context.Context, v access.Viewer) (access.Viewer, bool) {
	if !v.Authenticated() {
		return v, false
	}

	var u users.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&u, v.ID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("viewer lookup failed", zap.Uint("user_id", v.ID), zap.Error(err))
		}
		return v, false
	}
	return access.NewViewer(u.ID, u.Role), true
}

func (s *Store) HasCapability(ctx context.Context, v access.Viewer, capability string) bool {
	fresh, ok := s.refresh(ctx, v)
	if !ok {
		return false
	}
	return fresh.Can(capability)
}

func (s *Store) CanEdit(ctx context.Context, v access.Viewer, postID uint) bool {
	if postID == 0 {
		return false
	}
	fresh, ok := s.refresh(ctx, v)
	if !ok {
		return false
	}

	var post content.Post
	err := s.db.WithContext(ctx).Select("id", "author_id").First(&post, postID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("post lookup failed", zap.Uint("post_id", postID), zap.Error(err))
		}
		return false
	}
	return access.CanEditPost(fresh, post.AuthorID)
}

func (s *Store) HasAnyPurchase(ctx context.Context, userID uint) bool {
	if userID == 0 {
		return false
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&billing.Payment{}).
		Where("user_id = ? AND status = ?", userID, billing.StatusComplete).
		Count(&count).Error
	if err != nil {
		s.log.Warn("purchase lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return false
	}
	return count > 0
}

func (s *Store) HasPurchased(ctx context.Context, userID, productID uint, priceOptionID *uint) bool {
	if userID == 0 || productID == 0 {
		return false
	}

	q := s.db.WithContext(ctx).Model(&billing.PaymentItem{}).
		Joins("JOIN payments ON payments.id = payment_items.payment_id").
		Where("payments.user_id = ? AND payments.status = ?", userID, billing.StatusComplete).
		Where("payment_items.product_id = ?", productID)
	if priceOptionID != nil {
		q = q.Where("payment_items.price_option_id = ?", *priceOptionID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		s.log.Warn("purchase lookup failed",
			zap.Uint("user_id", userID),
			zap.Uint("product_id", productID),
			zap.Error(err),
		)
		return false
	}
	return count > 0
}

func (s *Store) ProductAuthor(ctx context.Context, productID uint) (uint, bool) {
	p, ok := s.product(ctx, productID)
	if !ok || p.AuthorID == nil {
		return 0, false
	}
	return *p.AuthorID, true
}

// Purchases lists the complete purchases of a user, newest first.
func (s *Store) Purchases(ctx context.Context, userID uint) ([]billing.Payment, error) {
	var payments []billing.Payment
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, billing.StatusComplete).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
