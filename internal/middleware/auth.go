package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/utils"
)

// APIKeyHeader carries the public key on the read API.
const APIKeyHeader = "apikey"

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(config *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
	}
}

// JWTAuth admits operator sessions issued by the login endpoint.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(bearerToken[1], &claims, func(token *jwt.Token) (any, error) {
			return []byte(m.config.JWTSecretKey), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		role, _ := claims[string(utils.RoleKey)].(string)
		if !domain.IsValidRole(role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(string(utils.ClaimsKey), claims)
		c.Set(string(utils.RoleKey), role)
		c.Next()
	}
}

// APIKeyAuth admits external applications that present the public key.
// They act as the anon role.
func (m *AuthMiddleware) APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" || m.config.PublicAPIKey == "" ||
			subtle.ConstantTimeCompare([]byte(key), []byte(m.config.PublicAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		role := string(domain.RoleAnon)
		c.Set(string(utils.ClaimsKey), jwt.MapClaims{string(utils.RoleKey): role})
		c.Set(string(utils.RoleKey), role)
		c.Next()
	}
}
