package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loyalty-points-ledger/internal/identity"
)

// PrincipalKey is the gin context key holding the resolved caller principal
const PrincipalKey = "principal"

// Auth middleware verifies the bearer credential and resolves it to a loyalty
// account, provisioning one on first contact. The resolved principal is stored
// in the context for handlers.
func Auth(logger *slog.Logger, gate identity.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "Missing bearer credential")
			return
		}

		principal, err := gate.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrAuthentication{}) {
				logger.Warn("Rejected credential",
					"path", c.Request.URL.Path,
					"correlation_id", GetCorrelationID(c),
				)
				abortUnauthorized(c, "Invalid or expired credential")
				return
			}

			logger.Error("Failed to resolve caller identity", "error", err)
			response := gin.H{
				"error": gin.H{
					"code":    "INTERNAL_SERVER_ERROR",
					"message": "An internal server error occurred",
				},
			}
			if correlationID := GetCorrelationID(c); correlationID != "" {
				response["correlation_id"] = correlationID
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, response)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		response["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}

// GetPrincipal retrieves the resolved principal from the gin context
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return identity.Principal{}, false
	}
	principal, ok := value.(identity.Principal)
	return principal, ok
}
