package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayfare/internal/auth"
	"wayfare/internal/domain"
)

const claimsContextKey = "authClaims"

// requireAuth verifies the bearer token and aborts with 401 when it is
// absent or invalid.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.tokens.Verify(bearerToken(c))
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// optionalAuth attaches claims when a valid bearer token is present, and
// lets anonymous requests through. An invalid token on an optional route
// is treated as anonymous rather than rejected.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := h.tokens.Verify(token); err == nil {
				c.Set(claimsContextKey, claims)
			}
		}
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(map[string]any{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// callerClaims returns the verified claims for the request, or nil for
// anonymous callers on optional-auth routes.
func callerClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// respondError maps the error taxonomy to status codes in one place.
// Unclassified failures become 500s; the underlying cause is only echoed
// to the client in debug mode.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindAuthentication:
		status = http.StatusUnauthorized
	case domain.KindAuthorization:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	}

	body := gin.H{"message": domain.MessageOf(err)}
	if status == http.StatusInternalServerError {
		h.logger.WithField("path", c.Request.URL.Path).Errorf("internal error: %v", err)
		if h.debug {
			body["error"] = err.Error()
		}
	}
	c.JSON(status, body)
}
