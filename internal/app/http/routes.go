package routes

import (
	authapi "content-restriction/internal/api/auth"
	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/access"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, s *Services) {
	r.POST("/webhook", s.Webhook.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Passwords must reach bcrypt untouched, so /login skips input sanitization.
	r.POST("/login", authapi.Login)
	r.GET("/auth/google", authapi.GoogleStart)
	r.GET("/auth/google/callback", authapi.GoogleCallback)

	r.GET("/products", s.Products.ListProducts)

	// Anonymous or signed in
	viewer := r.Group("/")
	viewer.Use(middleware.OptionalAuth())
	viewer.GET("/posts/:slug", s.Posts.GetPost)
	viewer.GET("/posts/:slug/access", s.Posts.GetAccess)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", s.Users.GetCurrentUser)
	auth.GET("/payments", s.Billing.GetPaymentHistory)
	auth.GET("/payments/:id/receipt", s.Billing.GetReceipt)

	sanitized := auth.Group("/")
	sanitized.Use(middleware.SanitizeAndCleanInputMiddleware())
	sanitized.POST("/checkout", s.Billing.CreateCheckoutSession)
	sanitized.PUT("/posts/:id/restriction", s.Posts.UpdateRestriction)

	// Rich text: the body is sanitized by the handler
	editors := auth.Group("/")
	editors.Use(middleware.RequireCapability(s.Capabilities, access.CapEditPosts))
	editors.POST("/posts", s.Posts.CreatePost)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireCapability(s.Capabilities, access.CapManageOptions))
	admin.GET("/payments", s.Admin.ListAllPayments)
	admin.GET("/email-tags", s.Admin.ListEmailTags)
	admin.POST("/sync-catalog", s.Products.SyncCatalogFromStripe)
}
