package users

import (
	"context"
	"errors"
	"net/http"

	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/users"
	"content-restriction/internal/infra/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Store interface {
	UserByID(ctx context.Context, id uint) (users.User, error)
	Purchases(ctx context.Context, userID uint) ([]billing.Payment, error)
}

type Handler struct {
	store Store
	log   *zap.Logger
}

func NewHandler(s Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: s, log: log}
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	v := middleware.Viewer(c)
	if !v.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.UserByID(ctx, v.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.log.Error("load user", zap.Uint("user_id", v.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	payments, err := h.store.Purchases(ctx, user.ID)
	if err != nil {
		h.log.Error("load purchases", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchases"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:      BuildUserDTO(user),
		Access:    BuildAccessDTO(user),
		Purchases: BuildPurchaseDTOs(payments),
	})
}
