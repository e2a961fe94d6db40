package store

import (
	"context"
	"errors"
	"fmt"

	"content-restriction/internal/domain/billing"

	"gorm.io/gorm"
)

// RecordPayment stores a payment with its items. A payment whose Stripe session is
// already known is not inserted twice; it is only moved to complete when the stored
// row is still pending and the incoming status is complete.
//
// created reports whether the call made the payment newly count as a purchase
// (a fresh insert, or an upgrade to complete).
func (s *Store) RecordPayment(ctx context.Context, p *billing.Payment) (created bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing billing.Payment
		err := tx.Preload("Items").Where("stripe_session_id = ?", p.StripeSessionID).First(&existing).Error
		if err == nil {
			if existing.Status != billing.StatusComplete && p.Status == billing.StatusComplete {
				if err := tx.Model(&existing).Update("status", billing.StatusComplete).Error; err != nil {
					return fmt.Errorf("complete payment: %w", err)
				}
				existing.Status = billing.StatusComplete
				created = true
			}
			*p = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}

func (s *Store) PaymentByID(ctx context.Context, id uint) (billing.Payment, error) {
	var p billing.Payment
	err := s.db.WithContext(ctx).Preload("Items").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

// PaymentProductIDs returns the distinct products bought in a payment.
func (s *Store) PaymentProductIDs(ctx context.Context, paymentID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&billing.PaymentItem{}).
		Where("payment_id = ?", paymentID).
		Distinct("product_id").
		Order("product_id ASC").
		Pluck("product_id", &ids).Error
	return ids, err
}

func (s *Store) PaymentsForUser(ctx context.Context, userID uint) ([]billing.Payment, error) {
	var payments []billing.Payment
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (s *Store) AllPayments(ctx context.Context) ([]billing.Payment, error) {
	var payments []billing.Payment
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
