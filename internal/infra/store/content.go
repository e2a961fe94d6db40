package store

import (
	"context"
	"errors"
	"fmt"

	"content-restriction/internal/domain/content"
	"content-restriction/internal/domain/restriction"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// GetRestriction returns the restriction set of a post. Missing posts and
// lookup failures read as unrestricted.
func (s *Store) GetRestriction(ctx context.Context, postID uint) restriction.Rules {
	var post content.Post
	err := s.db.WithContext(ctx).Select("id", "restricted_to").First(&post, postID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("restriction lookup failed", zap.Uint("post_id", postID), zap.Error(err))
		}
		return nil
	}
	return post.RestrictedTo
}

// GetProtectedPosts returns the ids of posts restricted to productID.
func (s *Store) GetProtectedPosts(ctx context.Context, productID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&content.ProtectedPost{}).
		Where("product_id = ?", productID).
		Order("post_id ASC").
		Pluck("post_id", &ids).Error
	return ids, err
}

// SetRestriction replaces a post's restriction set and rewrites its reverse index rows.
func (s *Store) SetRestriction(ctx context.Context, postID uint, rules restriction.Rules) error {
	rules = rules.Normalize()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&content.Post{}).Where("id = ?", postID).Update("restricted_to", rules)
		if res.Error != nil {
			return fmt.Errorf("update restriction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return writeProtectedPosts(tx, postID, rules)
	})
}

func writeProtectedPosts(tx *gorm.DB, postID uint, rules restriction.Rules) error {
	if err := tx.Where("post_id = ?", postID).Delete(&content.ProtectedPost{}).Error; err != nil {
		return fmt.Errorf("clear protected posts: %w", err)
	}

	productIDs := rules.ProductIDs()
	if len(productIDs) == 0 {
		return nil
	}

	rows := make([]content.ProtectedPost, 0, len(productIDs))
	for _, id := range productIDs {
		rows = append(rows, content.ProtectedPost{ProductID: id, PostID: postID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("write protected posts: %w", err)
	}
	return nil
}

// CreatePost stores a new post with a unique slug and indexes its restriction set.
func (s *Store) CreatePost(ctx context.Context, post *content.Post) error {
	post.RestrictedTo = post.RestrictedTo.Normalize()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := content.UniqueSlug(tx, &content.Post{}, content.MakeSlug(post.Title))
		if err != nil {
			return err
		}
		post.Slug = slug

		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return writeProtectedPosts(tx, post.ID, post.RestrictedTo)
	})
}

func (s *Store) PostBySlug(ctx context.Context, slug string) (content.Post, error) {
	var post content.Post
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return post, ErrNotFound
	}
	return post, err
}

func (s *Store) PostsByIDs(ctx context.Context, ids []uint) ([]content.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []content.Post
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&posts).Error
	return posts, err
}

// PostPermalink builds the public URL of a post.
func (s *Store) PostPermalink(post content.Post) string {
	return content.Permalink(s.baseURL, post.Slug)
}
