package handlers

import (
	"net/http"
	"strings"

	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	operatorCtx = "operator"

	// Browsers cannot set headers on a websocket upgrade.
	tokenQueryParam = "access_token"
)

// operatorMiddleware resolves the bearer token to an operator name stored under operatorCtx.
func (h *Handler) operatorMiddleware(c *gin.Context) {
	if !h.services.Enabled() {
		c.Set(operatorCtx, service.AnonymousOperator)
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		if tok := c.Query(tokenQueryParam); tok != "" {
			header = "Bearer " + tok
		}
	}
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	operator, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(operatorCtx, operator)
	c.Next()
}
