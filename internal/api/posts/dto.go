package posts

import (
	"time"

	"content-restriction/internal/domain/content"
	"content-restriction/internal/domain/restriction"
)

type PostDTO struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Status     string    `json:"status"`
	Body       string    `json:"body"`
	Restricted bool      `json:"restricted"`
	Permalink  string    `json:"permalink"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EditorPostDTO adds the raw restriction set, only sent to viewers who can edit the post.
type EditorPostDTO struct {
	PostDTO
	RestrictedTo restriction.Rules `json:"restricted_to"`
}

type CreatePostInput struct {
	Title        string            `json:"title" binding:"required"`
	Body         string            `json:"body"`
	Status       string            `json:"status"`
	RestrictedTo restriction.Rules `json:"restricted_to"`
}

type RestrictionInput struct {
	RestrictedTo restriction.Rules `json:"restricted_to"`
}

func toDTO(p content.Post, body, permalink string) PostDTO {
	return PostDTO{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Status:     p.Status,
		Body:       body,
		Restricted: p.RestrictedTo.Restricted(),
		Permalink:  permalink,
		UpdatedAt:  p.UpdatedAt,
	}
}
