// Package posts serves gated posts and lets editors manage their restriction sets.
package posts

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/content"
	"content-restriction/internal/domain/restriction"
	"content-restriction/internal/gate"
	"content-restriction/internal/infra/store"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type Store interface {
	PostBySlug(ctx context.Context, slug string) (content.Post, error)
	CreatePost(ctx context.Context, post *content.Post) error
	SetRestriction(ctx context.Context, postID uint, rules restriction.Rules) error
	CanEdit(ctx context.Context, v access.Viewer, postID uint) bool
	PostPermalink(post content.Post) string
}

type Handler struct {
	store     Store
	gate      *gate.Gate
	evaluator *access.Evaluator
	policy    *bluemonday.Policy
	log       *zap.Logger
}

func NewHandler(s Store, g *gate.Gate, evaluator *access.Evaluator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:     s,
		gate:      g,
		evaluator: evaluator,
		policy:    bluemonday.UGCPolicy(),
		log:       log,
	}
}

// visiblePost loads a post by slug. Drafts only exist for viewers who can edit them.
func (h *Handler) visiblePost(c *gin.Context, v access.Viewer) (content.Post, bool, bool) {
	ctx := c.Request.Context()

	post, err := h.store.PostBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			h.log.Error("load post", zap.String("slug", c.Param("slug")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load post"})
		}
		return post, false, false
	}

	canEdit := h.store.CanEdit(ctx, v, post.ID)
	if post.Status != content.StatusPublished && !canEdit {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return post, false, false
	}
	return post, canEdit, true
}

// GetPost renders a post for the current viewer, restricted bodies replaced by the
// purchase notice.
func (h *Handler) GetPost(c *gin.Context) {
	v := middleware.Viewer(c)

	post, canEdit, ok := h.visiblePost(c, v)
	if !ok {
		return
	}

	body := h.gate.Filter(c.Request.Context(), v, post.ID, post.Body)
	dto := toDTO(post, body, h.store.PostPermalink(post))

	if canEdit {
		c.JSON(http.StatusOK, EditorPostDTO{PostDTO: dto, RestrictedTo: post.RestrictedTo})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// GetAccess returns the raw access decision for the current viewer.
func (h *Handler) GetAccess(c *gin.Context) {
	v := middleware.Viewer(c)

	post, _, ok := h.visiblePost(c, v)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.evaluator.Evaluate(c.Request.Context(), v, post.RestrictedTo, post.ID))
}

func (h *Handler) CreatePost(c *gin.Context) {
	v := middleware.Viewer(c)

	var in CreatePostInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid title"})
		return
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	switch status {
	case "":
		status = content.StatusDraft
	case content.StatusDraft, content.StatusPublished:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	post := content.Post{
		AuthorID:     v.ID,
		Title:        strings.TrimSpace(h.policy.Sanitize(in.Title)),
		Body:         h.policy.Sanitize(in.Body),
		Status:       status,
		RestrictedTo: in.RestrictedTo,
	}
	if err := h.store.CreatePost(c.Request.Context(), &post); err != nil {
		h.log.Error("create post", zap.Uint("user_id", v.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	h.log.Info("post created", zap.Uint("post_id", post.ID), zap.Bool("restricted", post.RestrictedTo.Restricted()))
	c.JSON(http.StatusCreated, EditorPostDTO{
		PostDTO:      toDTO(post, post.Body, h.store.PostPermalink(post)),
		RestrictedTo: post.RestrictedTo,
	})
}

// UpdateRestriction replaces the restriction set of a post. An empty list unrestricts it.
func (h *Handler) UpdateRestriction(c *gin.Context) {
	v := middleware.Viewer(c)
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	postID := uint(id)

	var in RestrictionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restriction"})
		return
	}

	if !h.store.CanEdit(ctx, v, postID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	rules := in.RestrictedTo.Normalize()
	if err := h.store.SetRestriction(ctx, postID, rules); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.log.Error("set restriction", zap.Uint("post_id", postID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restriction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": postID, "restricted_to": rules})
}
