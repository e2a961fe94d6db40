package content

import (
	"time"

	"content-restriction/internal/domain/restriction"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"not null;uniqueIndex" json:"slug"`
	Body     string `gorm:"type:text" json:"body"`
	Status   string `gorm:"not null;default:'draft'" json:"status"`

	// Opaque restriction metadata; an empty set means unrestricted.
	RestrictedTo restriction.Rules `gorm:"column:restricted_to;type:jsonb;not null;default:'[]'" json:"restricted_to"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProtectedPost is the reverse index: one row per (product, post) restriction.
type ProtectedPost struct {
	ProductID uint `gorm:"primaryKey;autoIncrement:false"`
	PostID    uint `gorm:"primaryKey;autoIncrement:false;index"`
}
