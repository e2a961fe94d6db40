package store

import (
	"context"
	"errors"

	"content-restriction/internal/domain/users"

	"gorm.io/gorm"
)

func (s *Store) UserByID(ctx context.Context, id uint) (users.User, error) {
	var u users.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, ErrNotFound
	}
	return u, err
}

// UserIDByEmail links guest checkouts to an existing account.
func (s *Store) UserIDByEmail(ctx context.Context, email string) (uint, bool) {
	if email == "" {
		return 0, false
	}
	var u users.User
	if err := s.db.WithContext(ctx).Select("id").Where("email = ?", email).First(&u).Error; err != nil {
		return 0, false
	}
	return u.ID, true
}

func (s *Store) SetStripeCustomerID(ctx context.Context, userID uint, customerID string) error {
	return s.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}
