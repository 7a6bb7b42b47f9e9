package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-storefront-gateway/internal/auth"
	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
	"github.com/imrishuroy/go-storefront-gateway/internal/cart"
	"github.com/imrishuroy/go-storefront-gateway/internal/catalog"
	"github.com/imrishuroy/go-storefront-gateway/internal/orders"
	"github.com/imrishuroy/go-storefront-gateway/internal/payments"
	"github.com/imrishuroy/go-storefront-gateway/internal/uploads"
)

const sessionCookie = "storefront_session"

// HandlerConfig groups dependencies for the gateway handlers.
type HandlerConfig struct {
	Catalog  *catalog.Service
	Orders   *orders.Service
	Payments *payments.Service
	Uploader *uploads.Uploader
	Carts    *cart.Sessions
}

// TokenPassthrough copies the caller's bearer token into the request
// context so upstream calls are made with the caller's identity.
func TokenPassthrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if tok, ok := strings.CutPrefix(header, "Bearer "); ok && tok != "" {
			ctx := auth.WithToken(c.Request.Context(), tok)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// sessionID resolves the caller's cart session: the X-Session-ID header, a
// session cookie, or a fresh uuid (set as a cookie for subsequent calls).
func sessionID(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
	return sid
}

// writeUpstreamError surfaces an upstream or token-acquisition fault.
// Upstream HTTP faults keep their status and message so the caller can show
// a specific error; everything else collapses to a generic gateway fault.
func writeUpstreamError(c *gin.Context, err error) {
	if apiErr, ok := backend.AsAPIError(err); ok {
		c.JSON(apiErr.StatusCode, gin.H{"message": apiErr.Message})
		return
	}
	if errors.Is(err, auth.ErrTokenUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "authentication unavailable"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"message": "upstream request failed"})
}
