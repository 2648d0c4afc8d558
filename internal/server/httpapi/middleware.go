package httpapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/calcledger/internal/logging"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

// currentUserKey is the gin context key the auth middleware stores the
// resolved user under.
const currentUserKey = "currentUser"

// corsMiddleware answers preflight requests and stamps CORS headers for
// origins on the allowlist. Requests from unlisted origins pass through
// without the headers; the browser enforces the rest.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(allowedOrigins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Origin, Authorization, Accept, Accept-Encoding")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// requestLogger emits one structured record per request, tagged with the
// request id assigned by the requestid middleware.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rlog := logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"request_id", requestid.Get(c),
		)

		start := time.Now()
		c.Next()
		rlog.Info(c.Request.Context(), "request completed",
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// requireAuth authenticates the bearer token and stores the resolved user
// in the context for the handler.
func (h *handlers) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		user, err := h.users.Resolve(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user stored by requireAuth. It panics if the
// route was registered without the middleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}
