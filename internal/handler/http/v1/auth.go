package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/campus_alert_system/internal/identity"
	"github.com/shenikar/campus_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// claimsContextKey - ключ, под которым claims лежат в контексте gin
const claimsContextKey = "identity_claims"

// AuthMiddleware - middleware для аутентификации по Bearer токену.
// Для websocket-подключений токен также принимается в query-параметре,
// так как браузерный WebSocket API не позволяет задать заголовки.
func AuthMiddleware(verifier identity.Verifier, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			log.Warn("Identity token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication token required"})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			log.WithError(err).Warn("Identity token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid or expired token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// claimsFromContext достает claims, положенные AuthMiddleware
func claimsFromContext(c *gin.Context) (models.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return models.Claims{}, false
	}
	claims, ok := value.(models.Claims)
	return claims, ok
}
