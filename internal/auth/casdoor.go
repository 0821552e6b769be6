package auth

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/config"
)

const (
	// ContextKeyUserID is the Gin context key for the authenticated user.
	ContextKeyUserID = "user_id"
	// ContextKeyUserName is the Gin context key for the display name.
	ContextKeyUserName = "user_name"
)

// Verifier validates Casdoor-issued access tokens.
type Verifier struct {
	client *casdoorsdk.Client
}

func NewVerifier(cfg config.CasdoorConfig) *Verifier {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)
	return &Verifier{client: client}
}

// Middleware authenticates the request from the Authorization header and
// stores the user identity in the Gin context.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			return
		}

		claims, err := v.client.ParseJwtToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		userID := claims.User.Id
		if userID == "" {
			userID = claims.User.Name
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyUserName, claims.User.DisplayName)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
