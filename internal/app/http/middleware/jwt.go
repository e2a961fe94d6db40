package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"content-restriction/config"
	"content-restriction/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const viewerKey = "viewer"

var errNoToken = errors.New("authorization header missing")

// AuthMiddleware requires a valid bearer token and stores the viewer on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := viewerFromRequest(c)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, errNoSecret) {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		setViewer(c, v)
		c.Next()
	}
}

// OptionalAuth resolves the viewer when a token is sent and falls back to an
// anonymous viewer otherwise. A malformed or expired token is rejected.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := viewerFromRequest(c)
		switch {
		case errors.Is(err, errNoToken):
			v = access.Anonymous()
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		setViewer(c, v)
		c.Next()
	}
}

// CapabilityChecker resolves a capability against the stored account, not the token claims.
type CapabilityChecker func(ctx context.Context, v access.Viewer, capability string) bool

// RequireCapability must run after AuthMiddleware.
func RequireCapability(has CapabilityChecker, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !has(c.Request.Context(), Viewer(c), capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// Viewer returns the viewer resolved by the auth middlewares (anonymous if none ran).
func Viewer(c *gin.Context) access.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(access.Viewer); ok {
			return viewer
		}
	}
	return access.Anonymous()
}

func setViewer(c *gin.Context, v access.Viewer) {
	c.Set(viewerKey, v)
	if v.Authenticated() {
		c.Set("user_id", v.ID)
		c.Set("role", v.Role)
	}
}

var errNoSecret = errors.New("JWT secret not configured")

func viewerFromRequest(c *gin.Context) (access.Viewer, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return access.Viewer{}, errNoToken
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return access.Viewer{}, errors.New("bearer token malformed")
	}

	return ParseViewerToken(strings.TrimSpace(tokenString), []byte(config.JWT_SECRET))
}

// ParseViewerToken validates an HS256 token issued at sign-in and builds the viewer.
func ParseViewerToken(tokenString string, secret []byte) (access.Viewer, error) {
	if len(secret) == 0 {
		return access.Viewer{}, errNoSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return access.Viewer{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.Viewer{}, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return access.Viewer{}, errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)

	return access.NewViewer(uint(userID), role), nil
}
